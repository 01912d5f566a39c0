// Package expense contains the domain models of the tracker: expenses,
// categories, tags, shops and derived statistics. Models are value
// carriers; updates produce a new instance rather than mutating in place.
package expense

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Expense is a single recorded purchase. PurchaseDate is in seconds since
// the epoch; the "YYYY-MM-DD" form exists only at the API boundary.
type Expense struct {
	ID           string
	Name         string
	Cost         float64
	PurchaseDate int64
	Category     *Category
	Tags         []Tag
}

// NewExpense builds an Expense, generating an id when none is provided
// and defaulting the purchase date to the current time.
func NewExpense(id, name string, cost float64, purchaseDate int64, category *Category, tags []Tag) Expense {
	if id == "" {
		id = uuid.NewString()
	}
	if purchaseDate == 0 {
		purchaseDate = time.Now().Unix()
	}
	return Expense{
		ID:           id,
		Name:         name,
		Cost:         cost,
		PurchaseDate: purchaseDate,
		Category:     category,
		Tags:         tags,
	}
}

// PurchaseDateString returns the purchase date in its boundary form.
func (e Expense) PurchaseDateString() string {
	return FormatDate(e.PurchaseDate)
}

func (e Expense) MarshalJSON() ([]byte, error) {
	tags := e.Tags
	if tags == nil {
		tags = []Tag{}
	}
	return json.Marshal(struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Cost     float64   `json:"cost"`
		Date     string    `json:"date"`
		Category *Category `json:"category"`
		Tags     []Tag     `json:"tags"`
	}{
		ID:       e.ID,
		Name:     e.Name,
		Cost:     e.Cost,
		Date:     e.PurchaseDateString(),
		Category: e.Category,
		Tags:     tags,
	})
}

func (e Expense) String() string {
	return e.PurchaseDateString() + ", " + e.Name
}
