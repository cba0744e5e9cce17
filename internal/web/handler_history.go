package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/vbonduro/plantsage/internal/domain"
)

const defaultHistoryLimit = 50

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list history"})
		return
	}
	if entries == nil {
		entries = []*domain.Analysis{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": entries})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entry, err := s.service.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to get analysis", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get analysis"})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAnalysis(r.Context(), r.PathValue("id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistoryImage(w http.ResponseWriter, r *http.Request) {
	entry, err := s.service.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil || entry == nil || entry.ImageKey == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "image not found"})
		return
	}

	img, mimeType, err := s.images.Get(r.Context(), entry.ImageKey)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "image not found"})
		return
	}
	defer func() {
		if err := img.Close(); err != nil {
			s.logger.Error("failed to close image", "error", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, img); err != nil {
		s.logger.Error("failed to stream image", "image_key", entry.ImageKey, "error", err)
	}
}
