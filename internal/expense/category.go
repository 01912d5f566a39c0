package expense

import "github.com/google/uuid"

// Category is a single-valued classification label attached to expenses.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCategory builds a Category, generating an id when none is provided.
func NewCategory(id, name string) Category {
	if id == "" {
		id = uuid.NewString()
	}
	return Category{ID: id, Name: name}
}
