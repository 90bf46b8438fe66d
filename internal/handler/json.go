package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxListLimit = 100

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func isJSON(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return contentType == "" || strings.Contains(contentType, "application/json")
}

func (h *Handler) handleCreateJSON(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusBadRequest, "content type must be application/json")
		return
	}

	var request model.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mapping, err := h.urlService.Shorten(r.Context(), request.URL)
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Error().Err(err).Msg("Failed to shorten URL")
		writeError(w, http.StatusInternalServerError, "could not save URL")
		return
	}

	writeJSON(w, http.StatusCreated, mapping)
}

func (h *Handler) handleListJSON(w http.ResponseWriter, r *http.Request) {
	limit := web.DefaultRecentLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxListLimit)
	}

	urls, err := h.urlService.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list URLs")
		writeError(w, http.StatusInternalServerError, "could not load URLs")
		return
	}

	writeJSON(w, http.StatusOK, urls)
}

func (h *Handler) handleDeleteJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.urlService.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete URL")
		writeError(w, http.StatusInternalServerError, "could not delete URL")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBatchDeleteJSON(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusBadRequest, "content type must be application/json")
		return
	}

	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON array of ids")
		return
	}

	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "no ids given")
		return
	}

	if h.opts.DeleteQueue == nil {
		writeError(w, http.StatusServiceUnavailable, "bulk delete is disabled")
		return
	}

	if err := h.opts.DeleteQueue.Submit(ids); err != nil {
		log.Error().Err(err).Int("urlCount", len(ids)).Msg("Failed to queue deletes")
		writeError(w, http.StatusServiceUnavailable, "could not queue deletes")
		return
	}

	writeJSON(w, http.StatusAccepted, model.BatchDeleteResponse{Accepted: len(ids)})
}

func (h *Handler) handleResolveJSON(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	originalURL, err := h.urlService.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "short URL not found")
			return
		}

		log.Error().Err(err).Str("code", code).Msg("Failed to resolve short code")
		writeError(w, http.StatusInternalServerError, "could not resolve short URL")
		return
	}

	writeJSON(w, http.StatusOK, model.ResolveResponse{OriginalURL: originalURL})
}
