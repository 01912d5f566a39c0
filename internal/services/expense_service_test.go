package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobonk/expenses-tracker/internal/backend"
	"github.com/kobonk/expenses-tracker/internal/expense"
)

func newTestService(t *testing.T) *ExpenseService {
	t.Helper()

	factory := backend.NewFactory(nil)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:         backend.SQLiteBackend,
		SQLiteDBPath: ":memory:",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	service := NewExpenseService(result, nil)
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func TestCreateExpenseWithoutPublisher(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	date, err := expense.ParseDate("2024-03-15")
	require.NoError(t, err)

	item := expense.NewExpense("", "Lunch", 12.5, date, nil, []expense.Tag{{Name: "work"}})
	stored, err := service.CreateExpense(ctx, &item)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "Lunch", stored.Name)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, "work", stored.Tags[0].Name)
}

func TestCreateExpenseNilIsNoOp(t *testing.T) {
	service := newTestService(t)

	stored, err := service.CreateExpense(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUpdateExpensePersistsChanges(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	date, err := expense.ParseDate("2024-03-15")
	require.NoError(t, err)

	item := expense.NewExpense("", "Lunch", 12.5, date, nil, nil)
	stored, err := service.CreateExpense(ctx, &item)
	require.NoError(t, err)

	updated, err := service.UpdateExpense(ctx, stored.ID, map[string]any{"cost": 40.0})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 40.0, updated.Cost)

	found, err := service.Retriever().RetrieveExpense(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 40.0, found.Cost)
}
