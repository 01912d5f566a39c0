package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kobonk/expenses-tracker/internal/backend"
	"github.com/kobonk/expenses-tracker/internal/events"
	"github.com/kobonk/expenses-tracker/internal/expense"
)

// ExpenseService orchestrates writes across the persistence backend and
// the event queue. Event publishing never fails the request, the record
// is already stored when publishing happens.
type ExpenseService struct {
	persister backend.Persister
	retriever backend.Retriever
	publisher *events.Publisher
	cleanup   backend.CleanupFunc
}

func NewExpenseService(result *backend.Result, publisher *events.Publisher) *ExpenseService {
	return &ExpenseService{
		persister: result.Persister,
		retriever: result.Retriever,
		publisher: publisher,
		cleanup:   result.Cleanup,
	}
}

// Retriever exposes the read side for the route layer.
func (s *ExpenseService) Retriever() backend.Retriever {
	return s.retriever
}

// Persister exposes the write side for the route layer.
func (s *ExpenseService) Persister() backend.Persister {
	return s.persister
}

// CreateExpense stores the expense and publishes an added event.
func (s *ExpenseService) CreateExpense(ctx context.Context, item *expense.Expense) (*expense.Expense, error) {
	stored, err := s.persister.AddExpense(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if stored == nil {
		return nil, nil
	}

	s.publish(ctx, events.NewExpenseEvent(
		events.ActionAdded, stored.ID, stored.Name, stored.Cost, stored.PurchaseDateString()))

	return stored, nil
}

// UpdateExpense applies the changes and publishes an updated event.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, changes map[string]any) (*expense.Expense, error) {
	stored, err := s.persister.UpdateExpense(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if stored == nil {
		return nil, nil
	}

	s.publish(ctx, events.NewExpenseEvent(
		events.ActionUpdated, stored.ID, stored.Name, stored.Cost, stored.PurchaseDateString()))

	return stored, nil
}

// AddCategory stores a new category.
func (s *ExpenseService) AddCategory(ctx context.Context, category *expense.Category) (*expense.Category, error) {
	stored, err := s.persister.AddCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}
	return stored, nil
}

func (s *ExpenseService) publish(ctx context.Context, event *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", event.Action, "id", event.ID, "error", err)
	}
}

// Close closes the backend and the event publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, fmt.Errorf("backend: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
