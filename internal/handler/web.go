package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MikhailRaia/url-genie/internal/generator"
	"github.com/MikhailRaia/url-genie/internal/middleware"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handler) page(r *http.Request) *web.Page {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	return h.pages.Page(sessionID)
}

func (h *Handler) render(w http.ResponseWriter, status int, page *web.Page, notice *web.Notice) {
	view := web.View{
		Input:  page.Form().Input(),
		Notice: notice,
		Cards:  web.NewCards(page.Items(), h.urlService.Origin()),
	}

	if err := h.renderer.Index(w, status, view); err != nil {
		log.Error().Err(err).Msg("Failed to render home page")
	}
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	page := h.page(r)

	// A failed load keeps whatever the page already shows.
	_ = page.Load(r.Context())

	h.render(w, http.StatusOK, page, nil)
}

func (h *Handler) handleShorten(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	page := h.page(r)
	notice, err := page.Form().Submit(r.Context(), r.PostFormValue("url"))

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyURL), errors.Is(err, service.ErrInvalidURL):
		status = http.StatusBadRequest
	case errors.Is(err, web.ErrBusy):
		status = http.StatusConflict
	default:
		status = http.StatusBadGateway
	}

	h.render(w, status, page, &notice)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.page(r).Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete URL from page")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if !generator.IsCode(code) {
		log.Debug().Str("code", code).Msg("Malformed short code, redirecting home")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	originalURL, err := h.urlService.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug().Str("code", code).Msg("Short code not found, redirecting home")
		} else {
			log.Error().Err(err).Str("code", code).Msg("Failed to resolve short code")
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusTemporaryRedirect)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	code := strings.Trim(r.URL.Path, "/")

	if r.Method == http.MethodGet && code != "" {
		originalURL, err := h.urlService.Resolve(r.Context(), code)
		if err == nil {
			http.Redirect(w, r, originalURL, http.StatusTemporaryRedirect)
			return
		}
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Unmatched path did not resolve")
	}

	if err := h.renderer.NotFound(w); err != nil {
		log.Error().Err(err).Msg("Failed to render not found page")
	}
}
