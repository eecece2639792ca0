package card

import (
	"fmt"
	"log/slog"

	"github.com/zombor/bizcard/internal/extraction"
	"github.com/zombor/bizcard/internal/scanning"
)

// Extraction is the result of reading one card image
type Extraction struct {
	Lines  []string          `json:"lines"`
	Record extraction.Record `json:"record"`
}

// Service handles card operations
type Service struct {
	db      DB
	scanner scanning.Scanner
}

// NewService creates a new Service. Both handles are owned by the caller.
func NewService(db DB, scanner scanning.Scanner) *Service {
	return &Service{
		db:      db,
		scanner: scanner,
	}
}

// Extract reads the card image and classifies its lines without storing anything
func (s *Service) Extract(data []byte, contentType string) (*Extraction, error) {
	lines, err := s.scanner.ReadLines(data, contentType)
	if err != nil {
		slog.Error("Failed to read card",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("reading card: %w", err)
	}
	if lines == nil {
		lines = []string{}
	}

	record, err := extraction.Classify(lines)
	if err != nil {
		slog.Warn("Failed to classify card", "lines", len(lines), "error", err)
		return nil, fmt.Errorf("classifying card: %w", err)
	}

	slog.Debug("Classified card", "lines", len(lines))
	return &Extraction{Lines: lines, Record: record}, nil
}

// ProcessCard extracts the card and stores the flattened record with the image
func (s *Service) ProcessCard(data []byte, contentType string) (*Card, error) {
	result, err := s.Extract(data, contentType)
	if err != nil {
		return nil, err
	}
	return s.SaveCard(DetailsFromRecord(result.Record), data)
}

// SaveCard stores edited details with the image they were read from
func (s *Service) SaveCard(details Details, imageData []byte) (*Card, error) {
	id, err := s.db.InsertCard(details, imageData)
	if err != nil {
		return nil, fmt.Errorf("saving card: %w", err)
	}
	slog.Info("Saved card", "id", id)
	return &Card{ID: id, Details: details, ImageData: imageData}, nil
}

// GetCard retrieves a card by ID; found is false when it does not exist
func (s *Service) GetCard(id uint64) (*Card, bool, error) {
	card, found, err := s.db.GetCard(id)
	if err != nil {
		return nil, false, fmt.Errorf("getting card: %w", err)
	}
	return card, found, nil
}

// ListCards returns all cards
func (s *Service) ListCards() ([]*Card, error) {
	cards, err := s.db.ListCards()
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

// UpdateCard replaces the details of a card and returns the stored result
func (s *Service) UpdateCard(id uint64, details Details) (*Card, error) {
	if err := s.db.UpdateCard(id, details); err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}
	card, found, err := s.db.GetCard(id)
	if err != nil {
		return nil, fmt.Errorf("getting updated card: %w", err)
	}
	if !found {
		// Deleted between the two calls
		return nil, fmt.Errorf("getting updated card: %w: %d", ErrNotFound, id)
	}
	return card, nil
}

// DeleteCard removes a card; deleting a missing card succeeds
func (s *Service) DeleteCard(id uint64) error {
	if err := s.db.DeleteCard(id); err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	return nil
}

// GetCardImage returns the original image bytes of a card. A missing card
// and a card without image bytes are both ErrNotFound.
func (s *Service) GetCardImage(id uint64) ([]byte, error) {
	card, found, err := s.GetCard(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("getting card image: %w: %d", ErrNotFound, id)
	}
	// Cards saved without an upload have no image bytes
	if len(card.ImageData) == 0 {
		return nil, fmt.Errorf("getting card image: %w: card %d has no image", ErrNotFound, id)
	}
	return card.ImageData, nil
}
