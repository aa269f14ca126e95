package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/models"
)

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := taskQueryFrom(r)

	tasks, meta, err := h.Upstream.Tasks(r.Context(), q)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeList(w, tasks, meta)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.Upstream.TaskByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, task)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTaskRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	task, err := h.Upstream.CreateTask(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, task)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateTaskRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	task, err := h.Upstream.UpdateTask(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, task)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Upstream.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, nil)
}

func (h *Handlers) TaskStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Upstream.TaskStatistics(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeData(w, stats)
}

func (h *Handlers) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, meta, err := h.Upstream.OverdueTasks(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeList(w, tasks, meta)
}

func taskQueryFrom(r *http.Request) models.TaskQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return models.TaskQuery{
		Page:      page,
		Limit:     limit,
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}
