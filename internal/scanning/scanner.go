package scanning

import "errors"

// ErrRecognitionUnavailable wraps every failure to turn an image into lines.
var ErrRecognitionUnavailable = errors.New("text recognition unavailable")

// Scanner defines the interface for reading text off a business card image
type Scanner interface {
	// ReadLines returns the recognized text fragments in reading order, one
	// fragment per physical line, with no layout or confidence data.
	ReadLines(imageData []byte, contentType string) ([]string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// cardReadPrompt is the shared prompt used by all LLM providers for reading cards
const cardReadPrompt = `You are reading the text printed on a photographed business card. Transcribe every piece of text exactly as printed.

Rules:
- Output one entry per physical line or separate text fragment. Do not merge fragments into paragraphs.
- Keep the reading order: top to bottom, left to right.
- Copy characters verbatim, including punctuation, capitalisation, hyphens and "@" signs. Do not correct spelling.
- Do not label, classify or explain anything.

Return ONLY a JSON array of strings, for example:
["John Doe", "Manager", "555-1234", "john@example.com"]

If there is no readable text return [].
Do not include any text before or after the JSON.
Do not use markdown code blocks`
