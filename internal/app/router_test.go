package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/todoflow-labs/todo-service/internal/app"
	"github.com/todoflow-labs/todo-service/internal/events"
	"github.com/todoflow-labs/todo-service/internal/logging"
	"github.com/todoflow-labs/todo-service/internal/todo"
)

func newTestRouter() http.Handler {
	logger := logging.New("debug")
	return app.NewRouter(todo.NewMemoryRepository(), events.Noop{}, logger)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCRUDFlow(t *testing.T) {
	router := newTestRouter()

	// create
	resp := do(t, router, http.MethodPost, "/todos", `{"userId":"u1","title":"  Buy milk  "}`)
	assert.Equal(t, http.StatusCreated, resp.Code)
	var created todo.Todo
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// complete it
	resp = do(t, router, http.MethodPatch, "/todos/"+created.ID, `{"completed":true}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	var updated todo.Todo
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.GreaterOrEqual(t, updated.UpdatedAt, created.CreatedAt)

	// completed list holds exactly this record, active is empty
	resp = do(t, router, http.MethodGet, "/todos?userId=u1&status=completed", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	var todos []todo.Todo
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &todos))
	assert.Len(t, todos, 1)
	assert.Equal(t, created.ID, todos[0].ID)

	resp = do(t, router, http.MethodGet, "/todos?userId=u1&status=active", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())

	// delete, then the id never resolves again
	resp = do(t, router, http.MethodDelete, "/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(t, router, http.MethodDelete, "/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(t, router, http.MethodGet, "/todos?userId=u1", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestRouterErrorShapes(t *testing.T) {
	router := newTestRouter()

	resp := do(t, router, http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Contains(t, body["error"], "userId")

	resp = do(t, router, http.MethodGet, "/todos?userId=u1&status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	resp = do(t, router, http.MethodGet, "/todos?userId=u1&status=", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	resp = do(t, router, http.MethodPatch, "/todos/does-not-exist", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp = do(t, router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}
