package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobonk/expenses-tracker/internal/backend"
	"github.com/kobonk/expenses-tracker/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	factory := backend.NewFactory(nil)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:         backend.SQLiteBackend,
		SQLiteDBPath: ":memory:",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	service := services.NewExpenseService(result, nil)
	t.Cleanup(func() { _ = service.Close() })

	return NewServer(":0", service)
}

func doRequest(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, req)
	return recorder
}

func createCategory(t *testing.T, srv *Server, name string) map[string]any {
	t.Helper()

	recorder := doRequest(t, srv, http.MethodPost, "/categories", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var category map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &category))
	return category
}

func createExpense(t *testing.T, srv *Server, name string, cost float64, date string) map[string]any {
	t.Helper()

	recorder := doRequest(t, srv, http.MethodPost, "/expenses", map[string]any{
		"name":          name,
		"cost":          cost,
		"purchase_date": date,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stored))
	return stored
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	recorder := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCreateExpense(t *testing.T) {
	srv := newTestServer(t)

	stored := createExpense(t, srv, "Lunch", 12.5, "2024-03-15")

	assert.NotEmpty(t, stored["id"])
	assert.Equal(t, "Lunch", stored["name"])
	assert.Equal(t, 12.5, stored["cost"])
	assert.Equal(t, "2024-03-15", stored["date"])
	assert.Equal(t, []any{}, stored["tags"])
}

func TestCreateExpense_Validation(t *testing.T) {
	srv := newTestServer(t)

	recorder := doRequest(t, srv, http.MethodPost, "/expenses", map[string]any{
		"cost": 12.5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = doRequest(t, srv, http.MethodPost, "/expenses", map[string]any{
		"name":          "Lunch",
		"cost":          12.5,
		"purchase_date": "15/03/2024",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestGetExpense(t *testing.T) {
	srv := newTestServer(t)

	stored := createExpense(t, srv, "Lunch", 12.5, "2024-03-15")
	id := stored["id"].(string)

	recorder := doRequest(t, srv, http.MethodGet, "/expenses/"+id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var found map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &found))
	assert.Equal(t, "Lunch", found["name"])

	recorder = doRequest(t, srv, http.MethodGet, "/expenses/missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateExpense(t *testing.T) {
	srv := newTestServer(t)

	stored := createExpense(t, srv, "Lunch", 12.5, "2024-03-15")
	id := stored["id"].(string)

	recorder := doRequest(t, srv, http.MethodPut, "/expenses/"+id, map[string]any{
		"name": "Team lunch",
		"cost": 40.0,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
	assert.Equal(t, "Team lunch", updated["name"])
	assert.Equal(t, 40.0, updated["cost"])
	assert.Equal(t, "2024-03-15", updated["date"])

	recorder = doRequest(t, srv, http.MethodPut, "/expenses/missing", map[string]any{
		"cost": 1.0,
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doRequest(t, srv, http.MethodPut, "/expenses/"+id, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestListExpensesByMonth(t *testing.T) {
	srv := newTestServer(t)

	createExpense(t, srv, "Lunch", 12.5, "2024-03-15")
	createExpense(t, srv, "Dinner", 30.0, "2024-02-28")

	recorder := doRequest(t, srv, http.MethodGet, "/expenses?month=2024-03&months=1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var expenses []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, "Lunch", expenses[0]["name"])

	recorder = doRequest(t, srv, http.MethodGet, "/expenses?month=2024-03&months=2", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &expenses))
	assert.Len(t, expenses, 2)

	recorder = doRequest(t, srv, http.MethodGet, "/expenses?month=bogus", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestListMonths(t *testing.T) {
	srv := newTestServer(t)

	createExpense(t, srv, "Lunch", 12.5, "2024-01-15")

	recorder := doRequest(t, srv, http.MethodGet, "/months", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var months []string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &months))
	require.NotEmpty(t, months)
	assert.Equal(t, "2024-01", months[0])
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t)

	created := createCategory(t, srv, "Food")
	assert.NotEmpty(t, created["id"])

	recorder := doRequest(t, srv, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var categories []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0]["name"])

	recorder = doRequest(t, srv, http.MethodPost, "/categories", map[string]any{"name": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestSimilarNamesAndCommonCost(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 5; i++ {
		createExpense(t, srv, "Coffee", 2.5, fmt.Sprintf("2024-03-0%d", i+1))
	}
	createExpense(t, srv, "Coffee beans", 8.0, "2024-03-06")

	recorder := doRequest(t, srv, http.MethodGet, "/expenses/names?name=coffee", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var names []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &names))
	require.Len(t, names, 2)
	assert.Equal(t, "Coffee", names[0]["name"])
	assert.Equal(t, "Coffee beans", names[1]["name"])

	recorder = doRequest(t, srv, http.MethodGet, "/expenses/common-cost?name=Coffee", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload map[string]float64
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, 2.5, payload["cost"])

	recorder = doRequest(t, srv, http.MethodGet, "/expenses/common-cost", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestStatistics(t *testing.T) {
	srv := newTestServer(t)

	createExpense(t, srv, "Lunch", 10.0, "2024-03-05")
	createExpense(t, srv, "Dinner", 20.0, "2024-03-12")

	recorder := doRequest(t, srv, http.MethodGet, "/statistics?month=2024-03&months=1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var statistics []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &statistics))
	require.Len(t, statistics, 1)
	assert.Equal(t, "2024-03", statistics[0]["month"])
	assert.Equal(t, 30.0, statistics[0]["total"])
}
