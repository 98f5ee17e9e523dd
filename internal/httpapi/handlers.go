package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/runoshun/taskboard/internal/validation"
)

type handlers struct {
	log *slog.Logger
	uc  UseCases
}

type listResponse struct {
	Meta  domain.QueryMeta `json:"meta"`
	Items []domain.Task    `json:"items"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": ServiceName})
}

func (h *handlers) notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.ListTasks.Execute(r.Context(), usecase.ListTasksInput{Query: parseQuery(r)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Meta: out.Result.Meta, Items: out.Result.Items})
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	body, err := readJSONBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := validation.DecodeCreate(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.uc.NewTask.Execute(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Task)
}

func (h *handlers) patchTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := readJSONBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := validation.DecodeUpdate(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in.TaskID = id

	out, err := h.uc.EditTask.Execute(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.uc.DeleteTask.Execute(r.Context(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps an error to its HTTP response.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *validation.Error
		tooBig  *http.MaxBytesError
		logArgs = []any{"error", err, "request_id", RequestIDFrom(r.Context())}
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request", "details": verr})
	case errors.Is(err, domain.ErrInvalidTaskID):
		writeError(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
	case errors.Is(err, domain.ErrStorage):
		h.log.Error("storage failure", logArgs...)
		writeError(w, http.StatusInternalServerError, "Storage failure")
	case errors.Is(err, domain.ErrSerializerClosed):
		writeError(w, http.StatusServiceUnavailable, "Service shutting down")
	default:
		h.log.Error("request failed", logArgs...)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// readJSONBody returns the request body, or "{}" when the body is empty or
// not declared as JSON.
func readJSONBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || !isJSON(r.Header.Get("Content-Type")) {
		return []byte("{}"), nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// parseID accepts any finite number. Values that cannot name a task, such as
// 0 or 1.5, map to id 0 and end up as "not found".
func parseID(raw string) (int, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.ErrInvalidTaskID
	}
	if f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, nil
	}
	return int(f), nil
}

// parseQuery reads list parameters. Numbers that do not parse fall back to
// the defaults applied by QuerySpec.Normalize.
func parseQuery(r *http.Request) domain.QuerySpec {
	q := r.URL.Query()
	return domain.QuerySpec{
		Text:     q.Get("q"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Sort:     q.Get("sort"),
		Dir:      domain.SortDirection(q.Get("dir")),
		Page:     parseNumber(q.Get("page")),
		PageSize: parseNumber(q.Get("pageSize")),
	}
}

// parseNumber truncates a decimal query value; anything else yields 0.
func parseNumber(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(min(math.MaxInt32, max(math.MinInt32, math.Trunc(f))))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
