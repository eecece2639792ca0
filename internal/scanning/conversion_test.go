package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/image/bmp"
)

func solidImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

var _ = Describe("PrepareImageData", func() {
	var (
		imageData   []byte
		contentType string
		result      []byte
		err         error
	)

	JustBeforeEach(func() {
		result, err = PrepareImageData(imageData, contentType)
	})

	When("the image is already PNG", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(png.Encode(&buf, solidImage())).To(Succeed())
			imageData = buf.Bytes()
			contentType = "image/png"
		})

		It("should return the data untouched", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(imageData))
		})
	})

	When("the image is JPEG", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, solidImage(), nil)).To(Succeed())
			imageData = buf.Bytes()
			contentType = " IMAGE/JPEG "
		})

		It("should convert it to PNG", func() {
			Expect(err).NotTo(HaveOccurred())
			_, format, decodeErr := image.Decode(bytes.NewReader(result))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
		})
	})

	When("the image is BMP", func() {
		BeforeEach(func() {
			var buf bytes.Buffer
			Expect(bmp.Encode(&buf, solidImage())).To(Succeed())
			imageData = buf.Bytes()
			contentType = "image/bmp"
		})

		It("should convert it to PNG", func() {
			Expect(err).NotTo(HaveOccurred())
			img, decodeErr := png.Decode(bytes.NewReader(result))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(img.Bounds().Dx()).To(Equal(8))
		})
	})

	When("the data is not an image", func() {
		BeforeEach(func() {
			imageData = []byte("definitely not an image")
			contentType = "image/jpeg"
		})

		It("should return an unsupported format error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported image format"))
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	It("should recognize a heic brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)
		Expect(isHEICFormat(data)).To(BeTrue())
	})

	It("should reject short data", func() {
		Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
	})

	It("should reject other brands", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypisom0000")...)
		Expect(isHEICFormat(data)).To(BeFalse())
	})
})
