package card

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/bizcard/internal/extraction"
)

var _ = Describe("Details", func() {
	Describe("DetailsFromRecord", func() {
		It("should flatten each field into its column", func() {
			rec := extraction.Record{
				Website:      extraction.SingleField("www.x.com"),
				Email:        extraction.SingleField("john@x.com"),
				MobileNumber: extraction.SingleField("555-1234 & 555-5678"),
				CompanyName:  extraction.MultipleField("Acme", "Corp"),
				CardHolder:   extraction.SingleField("John Doe"),
				State:        extraction.SingleField("TamilNadu"),
				PinCode:      extraction.SingleField("600113"),
			}

			Expect(DetailsFromRecord(rec)).To(Equal(Details{
				CompanyName:  "Acme Corp",
				Name:         "John Doe",
				MobileNumber: "555-1234 & 555-5678",
				EmailAddress: "john@x.com",
				WebsiteURL:   "www.x.com",
				State:        "TamilNadu",
				PinCode:      "600113",
			}))
		})

		It("should leave unset fields empty", func() {
			Expect(DetailsFromRecord(extraction.Record{})).To(Equal(Details{}))
		})
	})

	Describe("Validate", func() {
		It("should accept values at their column width", func() {
			d := Details{
				Name:         strings.Repeat("a", maxTextLength),
				MobileNumber: strings.Repeat("5", maxMobileNumberLength),
				PinCode:      strings.Repeat("6", maxPinCodeLength),
			}
			Expect(d.Validate()).To(Succeed())
		})

		It("should count characters rather than bytes", func() {
			d := Details{PinCode: strings.Repeat("६", maxPinCodeLength)}
			Expect(d.Validate()).To(Succeed())
		})

		DescribeTable("should reject values over their column width",
			func(d Details, column string) {
				err := d.Validate()
				Expect(errors.Is(err, ErrColumnTooLong)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring(column))
			},
			Entry("mobile number", Details{MobileNumber: strings.Repeat("5", 16)}, "mobile_number"),
			Entry("pin code", Details{PinCode: strings.Repeat("6", 11)}, "pin_code"),
			Entry("area", Details{Area: strings.Repeat("x", 256)}, "area"),
		)
	})
})
