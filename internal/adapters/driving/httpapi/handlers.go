package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Error messages returned to clients.
const (
	msgMessageRequired = "Message is required"
	msgInvalidJSON     = "Invalid JSON"
	msgNotReady        = "Documentation index is not ready"
	msgInternal        = "Internal server error"
	msgTooManyRequests = "Too many requests"
)

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Sources   []string  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
}

type statsResponse struct {
	DocumentsProcessed int    `json:"documentsProcessed"`
	ChunksStored       int    `json:"chunksStored"`
	VocabularySize     int    `json:"vocabularySize"`
	State              string `json:"state"`
	Exchanges          int    `json:"exchanges"`
}

type healthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	RAGInitialized bool      `json:"ragInitialized"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeError(w, http.StatusBadRequest, msgMessageRequired)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if req.Message == nil || *req.Message == "" {
		writeError(w, http.StatusBadRequest, msgMessageRequired)
		return
	}

	resp, err := s.chat.Ask(r.Context(), *req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, msgMessageRequired)
		case errors.Is(err, domain.ErrStoreNotReady):
			writeError(w, http.StatusServiceUnavailable, msgNotReady)
		default:
			logger.Error("Chat error (request %s): %v", RequestIDFrom(r.Context()), err)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:  resp.Response,
		Sources:   sources,
		Timestamp: resp.Timestamp,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.retrieval.Stats(r.Context())
	if err != nil {
		logger.Error("Stats error: %v", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		DocumentsProcessed: stats.DocumentsProcessed,
		ChunksStored:       stats.ChunksStored,
		VocabularySize:     stats.VocabularySize,
		State:              stats.State.String(),
		Exchanges:          stats.Exchanges,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		RAGInitialized: s.retrieval.Ready(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
