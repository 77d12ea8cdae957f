package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Billy-Davies-2/snake-draft/internal/auth"
	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/Billy-Davies-2/snake-draft/internal/pubsub"
	"github.com/Billy-Davies-2/snake-draft/internal/service"
)

// SessionCookie identifies an anonymous visitor's draft
const SessionCookie = "draft_session"

// Drafter is the draft operations the HTTP layer calls
type Drafter interface {
	Start(ctx context.Context, key string, slot int) (models.DraftView, error)
	Restart(ctx context.Context, key string, slot *int) (models.DraftView, error)
	Pick(ctx context.Context, key string, index int) (models.DraftView, error)
	State(ctx context.Context, key string) (models.DraftView, error)
	Search(ctx context.Context, key, query string, limit int) ([]models.SearchResult, error)
	Options() service.Options
	Ready() bool
}

// EventSource is a stream of draft events
type EventSource interface {
	Subscribe() chan pubsub.Event
	Unsubscribe(chan pubsub.Event)
}

// APIHandlers contains all API handler methods
type APIHandlers struct {
	drafts        Drafter
	events        EventSource
	upgrader      websocket.Upgrader
	secureCookies bool
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(drafts Drafter, events EventSource) *APIHandlers {
	return &APIHandlers{
		drafts: drafts,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// SecureCookies marks issued session cookies Secure
func (h *APIHandlers) SecureCookies(secure bool) *APIHandlers {
	h.secureCookies = secure
	return h
}

// Register mounts the API on mux, wrapping draft routes with protect
func (h *APIHandlers) Register(mux *http.ServeMux, protect func(http.HandlerFunc) http.HandlerFunc) {
	if protect == nil {
		protect = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	mux.HandleFunc("/api/start", protect(h.StartDraft))
	mux.HandleFunc("/api/restart", protect(h.RestartDraft))
	mux.HandleFunc("/api/pick", protect(h.Pick))
	mux.HandleFunc("/api/state", protect(h.GetState))
	mux.HandleFunc("/api/players/search", protect(h.SearchPlayers))

	mux.HandleFunc("/api/events", protect(h.EventsSSE))
	mux.HandleFunc("/api/ws", protect(h.EventsWS))

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/healthz", h.Liveness)
	mux.HandleFunc("/readyz", h.Readiness)
}

// StartDraft begins a new draft with the user in the requested slot
func (h *APIHandlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	body := readBody(r)
	slot := h.drafts.Options().DefaultSlot
	if raw, ok := body["slot"]; ok {
		v, ok := toInt(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, h.slotTypeMessage())
			return
		}
		slot = v
	}

	key := h.sessionKey(w, r)
	logger.Info("Starting draft", "session", key, "slot", slot)
	view, err := h.drafts.Start(r.Context(), key, slot)
	h.respond(w, view, err)
}

// RestartDraft restarts the draft, reusing the last slot unless one is given
func (h *APIHandlers) RestartDraft(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	body := readBody(r)
	var slot *int
	if raw, ok := body["slot"]; ok && raw != nil {
		v, ok := toInt(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, h.slotTypeMessage())
			return
		}
		slot = &v
	}

	key := h.sessionKey(w, r)
	logger.Info("Restarting draft", "session", key)
	view, err := h.drafts.Restart(r.Context(), key, slot)
	h.respond(w, view, err)
}

// Pick drafts the pool player at the given index for the user
func (h *APIHandlers) Pick(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	body := readBody(r)
	raw, ok := body["index"]
	if !ok {
		writeError(w, http.StatusBadRequest, "index (0-based top-20 index) is required")
		return
	}
	index, ok := toInt(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	key := h.sessionKey(w, r)
	view, err := h.drafts.Pick(r.Context(), key, index)
	h.respond(w, view, err)
}

// GetState returns the caller's draft, starting the default game if needed
func (h *APIHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	view, err := h.drafts.State(r.Context(), h.sessionKey(w, r))
	h.respond(w, view, err)
}

// SearchPlayers fuzzy-matches undrafted players by name
func (h *APIHandlers) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = v
	}

	results, err := h.drafts.Search(r.Context(), h.sessionKey(w, r), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "results": results})
}

type stateResponse struct {
	OK bool `json:"ok"`
	models.DraftView
}

func (h *APIHandlers) respond(w http.ResponseWriter, view models.DraftView, err error) {
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{OK: true, DraftView: view})
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsInvalidInput(err), service.IsFailedPrecondition(err):
		logger.Debug("Rejected draft request", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoRankings):
		logger.Warn("Draft request before rankings loaded")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Draft request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *APIHandlers) slotTypeMessage() string {
	return fmt.Sprintf("slot must be an integer between 1 and %d", h.drafts.Options().Teams)
}

// sessionKey names the caller's draft: the signed-in user when there is
// one, otherwise a cookie issued on first contact
func (h *APIHandlers) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if user := auth.GetUser(r); user != nil && user.ID != "" {
		return "user:" + user.ID
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
