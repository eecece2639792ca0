package extraction

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Field", func() {
	Describe("add", func() {
		It("should turn an unset field into a list", func() {
			var f Field
			f.add("a")
			Expect(f.Shape()).To(Equal(Multiple))
			Expect(f.Values()).To(Equal([]string{"a"}))
		})

		It("should keep insertion order", func() {
			var f Field
			f.add("a")
			f.add("b")
			Expect(f.Values()).To(Equal([]string{"a", "b"}))
		})

		It("should turn a single value back into a list", func() {
			f := SingleField("a")
			f.add("b")
			Expect(f.Shape()).To(Equal(Multiple))
			Expect(f.Values()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("dropOldest", func() {
		It("should return to unset when the last entry is dropped", func() {
			f := MultipleField("a")
			f.dropOldest()
			Expect(f.IsUnset()).To(BeTrue())
		})
	})

	Describe("Values", func() {
		It("should return a copy", func() {
			f := MultipleField("a", "b")
			values := f.Values()
			values[0] = "changed"
			Expect(f.Values()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("String", func() {
		It("should join list entries with a space", func() {
			Expect(MultipleField("123 Main St", "Suite 4").String()).To(Equal("123 Main St Suite 4"))
		})

		It("should return a single value verbatim", func() {
			Expect(SingleField("a & b").String()).To(Equal("a & b"))
		})

		It("should return an empty string when unset", func() {
			Expect(Field{}.String()).To(BeEmpty())
		})
	})

	Describe("JSON", func() {
		It("should decode a string into a single field", func() {
			var f Field
			Expect(json.Unmarshal([]byte(`"a & b"`), &f)).To(Succeed())
			Expect(f).To(Equal(SingleField("a & b")))
		})

		It("should decode an array into a list field", func() {
			var f Field
			Expect(json.Unmarshal([]byte(`["a","b"]`), &f)).To(Succeed())
			Expect(f).To(Equal(MultipleField("a", "b")))
		})

		It("should decode an empty array into an unset field", func() {
			var f Field
			Expect(json.Unmarshal([]byte(`[]`), &f)).To(Succeed())
			Expect(f.IsUnset()).To(BeTrue())
		})

		It("should reject other JSON values", func() {
			var f Field
			Expect(json.Unmarshal([]byte(`42`), &f)).NotTo(Succeed())
		})
	})
})
