package card

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zombor/bizcard/internal/extraction"
)

var (
	// ErrPersistence wraps every failure of a store operation
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound is returned when updating a card that does not exist
	ErrNotFound = errors.New("card not found")
	// ErrColumnTooLong marks a value exceeding its column width
	ErrColumnTooLong = errors.New("value too long for column")
)

// Column widths of business_card_info
const (
	maxTextLength         = 255
	maxMobileNumberLength = 15
	maxPinCodeLength      = 10
)

// Details holds the editable text columns of a stored card
type Details struct {
	CompanyName  string `json:"company_name"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	MobileNumber string `json:"mobile_number"`
	EmailAddress string `json:"email_address"`
	WebsiteURL   string `json:"website_url"`
	Area         string `json:"area"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pin_code"`
}

// Card is a stored business card: its details, the store-assigned ID and the
// original image bytes
type Card struct {
	ID uint64 `json:"id"`
	Details
	ImageData []byte `json:"-"`
}

// DetailsFromRecord flattens an extracted record into storable columns
func DetailsFromRecord(rec extraction.Record) Details {
	return Details{
		CompanyName:  rec.CompanyName.String(),
		Name:         rec.CardHolder.String(),
		Designation:  rec.Designation.String(),
		MobileNumber: rec.MobileNumber.String(),
		EmailAddress: rec.Email.String(),
		WebsiteURL:   rec.Website.String(),
		Area:         rec.Area.String(),
		City:         rec.City.String(),
		State:        rec.State.String(),
		PinCode:      rec.PinCode.String(),
	}
}

// Validate checks every column against its width
func (d Details) Validate() error {
	columns := []struct {
		name  string
		value string
		max   int
	}{
		{"company_name", d.CompanyName, maxTextLength},
		{"name", d.Name, maxTextLength},
		{"designation", d.Designation, maxTextLength},
		{"mobile_number", d.MobileNumber, maxMobileNumberLength},
		{"email_address", d.EmailAddress, maxTextLength},
		{"website_url", d.WebsiteURL, maxTextLength},
		{"area", d.Area, maxTextLength},
		{"city", d.City, maxTextLength},
		{"state", d.State, maxTextLength},
		{"pin_code", d.PinCode, maxPinCodeLength},
	}
	for _, c := range columns {
		if n := utf8.RuneCountInString(c.value); n > c.max {
			return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrColumnTooLong, c.name, n, c.max)
		}
	}
	return nil
}
