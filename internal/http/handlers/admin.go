package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/models"
)

func (h *Handlers) SystemStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Upstream.SystemStatistics(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, stats)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, meta, err := h.Upstream.Users(r.Context(), userQueryFrom(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeList(w, users, meta)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Upstream.UserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, user)
}

func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateUserRoleRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	user, err := h.Upstream.UpdateUserRole(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, user)
}

func (h *Handlers) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateUserStatusRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	user, err := h.Upstream.UpdateUserStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, user)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Upstream.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, nil)
}

func userQueryFrom(r *http.Request) models.UserQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	uq := models.UserQuery{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		Role:   q.Get("role"),
	}

	if v := q.Get("isActive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			uq.IsActive = &b
		}
	}

	return uq
}
