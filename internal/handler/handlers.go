package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/todoflow-labs/todo-service/internal/events"
	"github.com/todoflow-labs/todo-service/internal/logging"
	"github.com/todoflow-labs/todo-service/internal/metrics"
	"github.com/todoflow-labs/todo-service/internal/todo"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  todo.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code todo.Code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// asDomain classifies err into the closed error taxonomy. Anything that is
// not a *todo.Error becomes INTERNAL_ERROR with a generic message so
// internals never leak to clients.
func asDomain(err error) *todo.Error {
	var derr *todo.Error
	if errors.As(err, &derr) {
		return derr
	}
	return &todo.Error{Code: todo.CodeInternal, Message: "internal server error"}
}

func statusFor(code todo.Code) int {
	switch code {
	case todo.CodeValidation:
		return http.StatusBadRequest
	case todo.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func resultFor(code todo.Code) string {
	switch code {
	case todo.CodeValidation:
		return metrics.ResultInvalid
	case todo.CodeNotFound:
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

// decodeBody decodes the request body, turning malformed JSON and wrong
// field types into validation errors with field-level messages.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch typeErr.Field {
			case "completed":
				return todo.Validationf("completed must be a boolean when provided")
			case "title":
				return todo.Validationf("title must be a string")
			case "userId":
				return todo.Validationf("userId must be a string")
			}
			return todo.Validationf("invalid type for field %q", typeErr.Field)
		}
		return todo.Validationf("invalid json body")
	}
	return nil
}

func publish(pub events.Publisher, evt events.Event, logger *logging.Logger) {
	if err := pub.Publish(evt); err != nil {
		logger.Error().Err(err).Str("event", evt.Type).Msg("failed to publish event")
		metrics.EventPublishFailures.Inc()
	}
}

// List handles GET /todos.
func List(repo todo.Repository, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug().Msg("handling list todos")

		q := r.URL.Query()
		userID := q.Get("userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, todo.CodeValidation, "userId is required")
			metrics.TodoListCounter.WithLabelValues(metrics.ResultInvalid).Inc()
			return
		}

		// status defaults to "all" only when the parameter is absent; a
		// present value, including empty, must be one of the three.
		status := todo.StatusAll
		if q.Has("status") {
			var err error
			status, err = todo.ParseStatus(q.Get("status"))
			if err != nil {
				derr := asDomain(err)
				writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
				metrics.TodoListCounter.WithLabelValues(metrics.ResultInvalid).Inc()
				return
			}
		}

		todos, err := repo.FindAll(r.Context(), userID, status)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list todos")
			writeError(w, http.StatusInternalServerError, todo.CodeInternal, "internal server error")
			metrics.TodoListCounter.WithLabelValues(metrics.ResultError).Inc()
			return
		}

		metrics.TodoListCounter.WithLabelValues(metrics.ResultSuccess).Inc()
		writeJSON(w, http.StatusOK, todos)
	}
}

// Create handles POST /todos.
func Create(repo todo.Repository, pub events.Publisher, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug().Msg("handling create todo")

		var dto todo.CreateTodoDTO
		if err := decodeBody(r, &dto); err != nil {
			derr := asDomain(err)
			writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
			metrics.TodoCreateCounter.WithLabelValues(metrics.ResultInvalid).Inc()
			return
		}
		dto.UserID = strings.TrimSpace(dto.UserID)

		if err := dto.Validate(); err != nil {
			derr := asDomain(err)
			writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
			metrics.TodoCreateCounter.WithLabelValues(metrics.ResultInvalid).Inc()
			return
		}

		created, err := repo.Create(r.Context(), dto)
		if err != nil {
			derr := asDomain(err)
			if derr.Code == todo.CodeInternal {
				logger.Error().Err(err).Msg("failed to create todo")
			}
			writeError(w, statusFor(derr.Code), derr.Code, derr.Message)
			metrics.TodoCreateCounter.WithLabelValues(resultFor(derr.Code)).Inc()
			return
		}

		publish(pub, events.Created(created), logger)
		metrics.TodoCreateCounter.WithLabelValues(metrics.ResultSuccess).Inc()
		writeJSON(w, http.StatusCreated, created)
	}
}

// Update handles PATCH /todos/{id}.
func Update(repo todo.Repository, pub events.Publisher, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug().Msg("handling update todo")
		id := chi.URLParam(r, "id")

		var dto todo.UpdateTodoDTO
		if err := decodeBody(r, &dto); err != nil {
			derr := asDomain(err)
			writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
			metrics.TodoUpdateCounter.WithLabelValues(metrics.ResultInvalid).Inc()
			return
		}

		if err := dto.Validate(); err != nil {
			derr := asDomain(err)
			writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
			metrics.TodoUpdateCounter.WithLabelValues(metrics.ResultInvalid).Inc()
			return
		}

		updated, err := repo.Update(r.Context(), id, dto)
		if err != nil {
			derr := asDomain(err)
			if derr.Code == todo.CodeInternal {
				logger.Error().Err(err).Str("id", id).Msg("failed to update todo")
			}
			writeError(w, statusFor(derr.Code), derr.Code, derr.Message)
			metrics.TodoUpdateCounter.WithLabelValues(resultFor(derr.Code)).Inc()
			return
		}

		publish(pub, events.Updated(updated), logger)
		metrics.TodoUpdateCounter.WithLabelValues(metrics.ResultSuccess).Inc()
		writeJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /todos/{id}.
func Delete(repo todo.Repository, pub events.Publisher, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug().Msg("handling delete todo")
		id := chi.URLParam(r, "id")

		if err := repo.Delete(r.Context(), id); err != nil {
			derr := asDomain(err)
			if derr.Code == todo.CodeInternal {
				logger.Error().Err(err).Str("id", id).Msg("failed to delete todo")
			}
			writeError(w, statusFor(derr.Code), derr.Code, derr.Message)
			metrics.TodoDeleteCounter.WithLabelValues(resultFor(derr.Code)).Inc()
			return
		}

		publish(pub, events.Deleted(id), logger)
		metrics.TodoDeleteCounter.WithLabelValues(metrics.ResultSuccess).Inc()
		w.WriteHeader(http.StatusNoContent)
	}
}
