package scanning

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"google.golang.org/api/option"
)

// Vision implements the Scanner interface with Google Cloud Vision document
// text detection
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a Cloud Vision scanner. With an empty credentialsFile the
// client falls back to application default credentials.
func NewVision(credentialsFile string) (*Vision, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// The client keeps using this context for its connection
	client, err := vision.NewImageAnnotatorClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

// ReadLines detects the card text and splits it into lines
func (v *Vision) ReadLines(imageData []byte, contentType string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	finalImageData, err := PrepareImageData(imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecognitionUnavailable, err)
	}

	image, err := vision.NewImageFromReader(bytes.NewReader(finalImageData))
	if err != nil {
		return nil, fmt.Errorf("%w: creating vision image: %w", ErrRecognitionUnavailable, err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, image, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: vision API failed to detect text: %w", ErrRecognitionUnavailable, err)
	}
	if annotation == nil {
		return []string{}, nil
	}

	return CleanLines(strings.Split(annotation.GetText(), "\n")), nil
}

// Close closes the Vision client
func (v *Vision) Close() error {
	return v.client.Close()
}
