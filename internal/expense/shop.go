package expense

// Shop is a place of purchase. Like Tag, its identity is the name; the id
// is optional and absent until the shop is persisted.
type Shop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Equal reports whether two shops carry the same name.
func (s Shop) Equal(other Shop) bool {
	return s.Name == other.Name
}
