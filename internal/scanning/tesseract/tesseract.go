// Package tesseract reads business cards with a local Tesseract engine.
// Building it needs the Tesseract and Leptonica headers (cgo).
package tesseract

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/zombor/bizcard/internal/scanning"
)

var _ scanning.Scanner = (*Tesseract)(nil)

// Tesseract implements the scanning.Scanner interface with a local Tesseract engine.
// Each text line Tesseract segments becomes one fragment.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New creates a Tesseract scanner for the given trained-data languages
func New(languages ...string) (*Tesseract, error) {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}, nil
}

// ReadLines recognizes the card and returns its text lines top to bottom
func (t *Tesseract) ReadLines(imageData []byte, contentType string) ([]string, error) {
	finalImageData, err := scanning.PrepareImageData(imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scanning.ErrRecognitionUnavailable, err)
	}

	// gosseract clients are not safe for concurrent use, so one per call
	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("%w: set languages: %w", scanning.ErrRecognitionUnavailable, err)
	}
	// Cards are sparse text scattered around a logo, not a page of prose
	if err := c.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("%w: set page segmentation mode: %w", scanning.ErrRecognitionUnavailable, err)
	}
	if err := c.SetImageFromBytes(finalImageData); err != nil {
		return nil, fmt.Errorf("%w: set image: %w", scanning.ErrRecognitionUnavailable, err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("%w: recognize text lines: %w", scanning.ErrRecognitionUnavailable, err)
	}

	fragments := make([]string, 0, len(boxes))
	for _, b := range boxes {
		fragments = append(fragments, b.Word)
	}
	return scanning.CleanLines(fragments), nil
}

// Close is a no-op; clients are released after every call
func (t *Tesseract) Close() error {
	return nil
}
