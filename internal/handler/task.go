package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskmaster-api/internal/service"
	"github.com/BuzzLyutic/taskmaster-api/internal/validation"
	"github.com/BuzzLyutic/taskmaster-api/pkg/respond"
)

const maxBodyBytes = 1 << 20

var errMissingID = errors.New("missing task id")

type TaskHandler struct {
	service    *service.TaskService
	logger     *zap.Logger
	production bool
}

// NewTaskHandler builds the task controller. In production, 500 responses carry a generic message.
func NewTaskHandler(srv *service.TaskService, logger *zap.Logger, production bool) *TaskHandler {
	return &TaskHandler{
		service:    srv,
		logger:     logger,
		production: production,
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &validation.Error{Reasons: []string{fmt.Sprintf("invalid body: %v", err)}}
	}
	return body, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	in, err := validation.CreateTask(body)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respond.Success(w, r, http.StatusCreated, task, "Task created successfully")
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.handleErrors(w, r, errMissingID)
		return
	}

	task, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Success(w, r, http.StatusOK, task, "")
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := validation.ListOptions(r.URL.Query())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	tasks, err := h.service.List(r.Context(), opts)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	total, err := h.service.Count(r.Context(), opts.Filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.Paginated(w, r, tasks, total, opts.Limit, opts.Offset)
}

func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := validation.Status(r.URL.Query().Get("status"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	tasks, err := h.service.GetByStatus(r.Context(), status)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Success(w, r, http.StatusOK, tasks, "")
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.handleErrors(w, r, errMissingID)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	patch, err := validation.UpdateTask(body)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.Success(w, r, http.StatusOK, task, "Task updated successfully")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.handleErrors(w, r, errMissingID)
		return
	}

	task, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.logger.Info("task deleted", zap.String("id", task.ID), zap.String("title", task.Title))
	respond.NoContent(w, r)
}

// handleErrors is the single place where errors become status codes.
func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr      *validation.Error
		notFoundErr *service.NotFoundError
	)

	switch {
	case errors.As(err, &valErr):
		respond.Error(w, r, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &notFoundErr):
		respond.Error(w, r, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, errMissingID):
		respond.Error(w, r, http.StatusBadRequest, "Task ID is required")
	default:
		h.logger.Error("internal error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		respond.Error(w, r, http.StatusInternalServerError, internalMessage(err, h.production))
	}
}

func internalMessage(err error, production bool) string {
	if production {
		return "Internal server error"
	}
	return err.Error()
}
