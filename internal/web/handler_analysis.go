package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vbonduro/plantsage/internal/analysis"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) handleImageAnalysis(w http.ResponseWriter, r *http.Request) {
	kind, ok := analysis.ParseKind(r.PathValue("kind"))
	if !ok || kind == analysis.KindWeather {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown analysis kind"})
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse form"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "an image file is required"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("failed to close upload file", "error", err)
		}
	}()

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "kind", kind, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read file"})
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unsupported image format; use JPEG, PNG, GIF, or WebP",
		})
		return
	}

	entry, err := s.service.AnalyzeImage(r.Context(), kind, imageData, mimeType)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleWeatherAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entry, err := s.service.AnalyzeWeather(r.Context(), req.Location)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
