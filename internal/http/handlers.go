package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

type expenseRequest struct {
	Name         string            `json:"name"`
	Cost         float64           `json:"cost"`
	PurchaseDate string            `json:"purchase_date"`
	Category     *expense.Category `json:"category"`
	Tags         []expense.Tag     `json:"tags"`
}

type expenseUpdateRequest struct {
	Name         *string  `json:"name"`
	Cost         *float64 `json:"cost"`
	PurchaseDate *string  `json:"purchase_date"`
	CategoryID   *string  `json:"category_id"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "expense name is required")
		return
	}

	var purchaseDate int64
	if req.PurchaseDate != "" {
		parsed, err := expense.ParseDate(req.PurchaseDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid purchase date, expected YYYY-MM-DD")
			return
		}
		purchaseDate = parsed
	}

	item := expense.NewExpense("", req.Name, req.Cost, purchaseDate, req.Category, req.Tags)
	stored, err := s.service.CreateExpense(r.Context(), &item)
	if err != nil {
		s.writeServiceError(w, r, "Create expense failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	stored, err := s.service.Retriever().RetrieveExpense(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve expense failed", err)
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req expenseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Cost != nil {
		changes["cost"] = *req.Cost
	}
	if req.PurchaseDate != nil {
		parsed, err := expense.ParseDate(*req.PurchaseDate)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid purchase date, expected YYYY-MM-DD")
			return
		}
		changes["purchase_date"] = parsed
	}
	if req.CategoryID != nil {
		changes["category_id"] = *req.CategoryID
	}
	if len(changes) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "at least one field must be provided")
		return
	}

	existing, err := s.service.Retriever().RetrieveExpense(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve expense failed", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	stored, err := s.service.UpdateExpense(r.Context(), id, changes)
	if err != nil {
		s.writeServiceError(w, r, "Update expense failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	month, months := parseMonthWindow(r)
	expenses, err := s.service.Retriever().RetrieveExpenses(r.Context(), month, months)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve expenses failed", err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleFilterExpenses(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name query parameter is required")
		return
	}
	expenses, err := s.service.Retriever().FilterExpenses(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, "Filter expenses failed", err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSimilarNames(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name query parameter is required")
		return
	}
	names, err := s.service.Retriever().RetrieveSimilarExpenseNames(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve similar names failed", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCommonCost(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name query parameter is required")
		return
	}
	cost, err := s.service.Retriever().RetrieveCommonExpenseCost(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve common cost failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"cost": cost})
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.service.Retriever().RetrieveMonths(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Retrieve months failed", err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.service.Retriever().RetrieveCategories(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Retrieve categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "category name is required")
		return
	}

	category := expense.NewCategory("", req.Name)
	stored, err := s.service.AddCategory(r.Context(), &category)
	if err != nil {
		s.writeServiceError(w, r, "Add category failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.service.Retriever().RetrieveTags(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Retrieve tags failed", err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = expense.MonthLabel(time.Now().Unix())
	}
	suggestions, err := s.service.Retriever().RetrieveExpenseSuggestions(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve suggestions failed", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	month, months := parseMonthWindow(r)
	statistics, err := s.service.Retriever().RetrieveStatistics(r.Context(), month, months)
	if err != nil {
		s.writeServiceError(w, r, "Retrieve statistics failed", err)
		return
	}
	writeJSON(w, http.StatusOK, statistics)
}

// parseMonthWindow extracts the month (YYYY-MM) and number of months from
// query parameters, defaulting to the current month and one month.
func parseMonthWindow(r *http.Request) (string, int) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = expense.MonthLabel(time.Now().Unix())
	}
	months := 1
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			months = n
		}
	}
	return month, months
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, expense.ErrInvalidArgument) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), message, "error", err, "url", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
