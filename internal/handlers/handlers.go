package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/service"
)

// userIDHeader carries the authenticated caller's identity, installed by the
// auth layer in front of this service.
const userIDHeader = "X-User-ID"

// Handler serves the reminder HTTP surface.
type Handler struct {
	svc    *service.Service
	logger *zap.SugaredLogger
}

func New(svc *service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// todayResponse is the wire shape for GET /reminders/today.
type todayResponse struct {
	SurfaceHint  reminder.Hint   `json:"surfaceHint"`
	NoteID       string          `json:"noteId"`
	Title        string          `json:"title"`
	ImageURL     string          `json:"imageUrl"`
	SourceType   reminder.Source `json:"sourceType"`
	ReminderDate string          `json:"reminderDate"`
	Dismissed    bool            `json:"dismissed"`
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		h.logger.Infow("request", "method", r.Method, "path", r.URL.Path, "status", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *Handler) logRequest(r *http.Request, status int) {
	h.logger.Infow("request", "method", r.Method, "path", r.URL.Path, "status", status)
}

// GetTodayHandler serves GET /reminders/today: 200 with the reminder and its
// surface hint, or 204 when the caller has none today.
func (h *Handler) GetTodayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.GetToday(userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		h.logger.Errorw("get today failed", "user", userID, "err", err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		h.logRequest(r, http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(todayResponse{
		SurfaceHint:  res.Hint,
		NoteID:       res.Record.NoteID,
		Title:        res.Record.Payload.Title,
		ImageURL:     res.Record.Payload.ImageURL,
		SourceType:   res.Record.Source,
		ReminderDate: res.Record.Date,
		Dismissed:    res.Record.Dismissed,
	})
	h.logRequest(r, http.StatusOK)
}

// DismissHandler serves POST /reminders/dismiss: 204 on success, 404 when no
// reminder exists today.
func (h *Handler) DismissHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Dismiss(userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			h.logRequest(r, http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		h.logger.Errorw("dismiss failed", "user", userID, "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logRequest(r, http.StatusNoContent)
}

// ModalClosedHandler serves POST /reminders/modal-closed.
func (h *Handler) ModalClosedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.svc.MarkModalClosed(userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			h.logRequest(r, http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		h.logger.Errorw("modal close failed", "user", userID, "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logRequest(r, http.StatusNoContent)
}
