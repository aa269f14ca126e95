package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/models"
)

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if err := h.Session.Login(r.Context(), in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, h.Session.Snapshot())
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if err := h.Session.Register(r.Context(), in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, h.Session.Snapshot())
}

// Logout всегда отвечает успехом: серверная часть best-effort,
// локальная сессия вычищена в любом случае.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())

	writeData(w, h.Session.Snapshot())
}

// SessionState — снимок сессии для UI.
func (h *Handlers) SessionState(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.Session.Snapshot())
}

func (h *Handlers) ClearError(w http.ResponseWriter, r *http.Request) {
	h.Session.ClearError()

	writeData(w, h.Session.Snapshot())
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in models.ChangePasswordRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if err := h.Upstream.ChangePassword(r.Context(), in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, nil)
}
