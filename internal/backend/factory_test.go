package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

func TestCreateBackend_EmptyType(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, expense.ErrInvalidArgument)
	assert.Nil(t, result)
}

func TestCreateBackend_UnknownType(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: "postgres"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCreateBackend_SQLite(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: ":memory:",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	defer result.Cleanup()

	require.NotNil(t, result.Retriever)
	require.NotNil(t, result.Persister)

	stored, err := result.Persister.AddCategory(context.Background(), &expense.Category{Name: "Food"})
	require.NoError(t, err)

	categories, err := result.Retriever.RetrieveCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, stored.ID, categories[0].ID)
	assert.Equal(t, "Food", categories[0].Name)
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		value Type
		valid bool
	}{
		{SQLiteBackend, true},
		{MariaDBBackend, true},
		{"sheets", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.value.IsValid(), "type %q", tt.value)
	}
}
