package card

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zombor/bizcard/internal/extraction"
	"github.com/zombor/bizcard/internal/scanning"
)

// maxUploadSize bounds multipart uploads; phone photos can be large
const maxUploadSize = int64(50 << 20)

// corsError writes a JSON error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scanning.ErrRecognitionUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, extraction.ErrPositionalRule), errors.Is(err, ErrColumnTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseID reads the {id} path value
func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		corsError(w, "Card ID must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// contentTypeFor guesses a content type from the file extension
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// readUpload parses the multipart form and returns the "file" part.
// On failure it has already written the response.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		corsError(w, errorMsg, http.StatusBadRequest)
		return nil, "", false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a card image to upload."
		}
		corsError(w, errorMsg, http.StatusBadRequest)
		return nil, "", false
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		corsError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return nil, "", false
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		corsError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return nil, "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFor(header.Filename)
	}
	return data, strings.ToLower(strings.TrimSpace(contentType)), true
}

// handleExtract reads a card image and returns its lines and record
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.service.Extract(data, contentType)
	if err != nil {
		corsError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCreateCard stores a card. With a "details" form field the edited
// details are saved as-is; without it the card is extracted first.
func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := readUpload(w, r)
	if !ok {
		return
	}

	var (
		card *Card
		err  error
	)
	if raw := r.FormValue("details"); raw != "" {
		var details Details
		if decodeErr := json.Unmarshal([]byte(raw), &details); decodeErr != nil {
			corsError(w, "Invalid details", http.StatusBadRequest)
			return
		}
		card, err = s.service.SaveCard(details, data)
	} else {
		card, err = s.service.ProcessCard(data, contentType)
	}
	if err != nil {
		slog.Error("Error creating card", "error", err)
		corsError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// handleListCards returns a list of all cards
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.service.ListCards()
	if err != nil {
		slog.Error("Error listing cards", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Ensure we always return an array, not nil
	if cards == nil {
		cards = []*Card{}
	}

	writeJSON(w, http.StatusOK, cards)
}

// handleGetCard returns a single card
func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	card, found, err := s.service.GetCard(id)
	if err != nil {
		slog.Error("Error getting card", "id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		corsError(w, "Card not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// handleGetCardImage returns the original image of a card
func (s *Server) handleGetCardImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data, err := s.service.GetCardImage(id)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusNotFound {
			corsError(w, "Image not found", status)
			return
		}
		slog.Error("Error getting card image", "id", id, "error", err)
		corsError(w, "Internal server error", status)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

// handleUpdateCard replaces the details of a card
func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var details Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	card, err := s.service.UpdateCard(id, details)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusNotFound {
			corsError(w, "Card not found", status)
			return
		}
		slog.Error("Error updating card", "id", id, "error", err)
		corsError(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// handleDeleteCard deletes a card
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteCard(id); err != nil {
		slog.Error("Error deleting card", "id", id, "error", err)
		corsError(w, "Error deleting card", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
