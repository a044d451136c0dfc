package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/session"
)

// PageData is the common part of every view model the external renderer
// consumes: the optional current user and any one-shot messages.
type PageData struct {
	User    *models.User    `json:"user,omitempty"`
	Flashes []session.Flash `json:"flashes,omitempty"`
}

type FeedResponse struct {
	PageData
	Posts []models.Post `json:"posts"`
}

type PostResponse struct {
	PageData
	Post *models.Post `json:"post"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
