package expense

import "github.com/google/uuid"

// Tag is a multi-valued label attachable to many expenses. Two tags with
// the same name are the same tag regardless of their ids: the id is a
// storage handle, the name is the identity.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewTag builds a Tag, generating an id when none is provided.
func NewTag(id, name string) Tag {
	if id == "" {
		id = uuid.NewString()
	}
	return Tag{ID: id, Name: name}
}

// Equal reports whether two tags carry the same name; ids are ignored.
func (t Tag) Equal(other Tag) bool {
	return t.Name == other.Name
}

// ContainsTag reports whether tags holds a tag equal to candidate under
// the name-based equality rule.
func ContainsTag(tags []Tag, candidate Tag) bool {
	for _, t := range tags {
		if t.Equal(candidate) {
			return true
		}
	}
	return false
}
