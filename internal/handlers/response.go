package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"chat-relay/internal/middleware"
	"chat-relay/internal/models"
	"chat-relay/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func requestID(r *http.Request) string {
	return r.Header.Get(middleware.RequestIDHeader)
}

func handleRelayError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing  *services.MissingFieldError
		upstream *services.UpstreamError
	)

	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, models.MissingFieldResponse{
			Error:     missing.Error(),
			RequestID: requestID(r),
		})
	case errors.As(err, &upstream):
		writeJSON(w, upstream.StatusCode, models.UpstreamErrorResponse{
			Error:     "OpenAI error",
			Details:   upstream.Body,
			RequestID: requestID(r),
		})
	default:
		log.Printf("chat relay failed (request_id=%s): %+v", requestID(r), err)
		writeJSON(w, http.StatusInternalServerError, models.ServerErrorResponse{
			Error:     "Server error",
			Message:   err.Error(),
			RequestID: requestID(r),
		})
	}
}
