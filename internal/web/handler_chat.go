package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/domain"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	persona, ok := analysis.ParsePersona(r.PathValue("persona"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chat persona"})
		return
	}

	var req struct {
		History []domain.ChatMessage `json:"history"`
		Message string               `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	reply, err := s.service.Chat(r.Context(), persona, req.History, req.Message)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	translated, err := s.service.Translate(r.Context(), req.Text, req.Language)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translation": translated})
}
