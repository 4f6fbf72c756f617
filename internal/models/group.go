package models

import "errors"

// DefaultMember is the implicit first member of every group: the creator's
// own balance line. It is also the default payer in clients.
const DefaultMember = "You"

var (
	ErrEmptyGroupName  = errors.New("group name must not be empty")
	ErrEmptyMemberName = errors.New("member name must not be empty")
)

// Group represents a named collection of members sharing transactions.
type Group struct {
	// ID is the store-assigned identifier (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Goa Trip", "Flat 4B").
	Name string `json:"name"`

	// Members is the ordered list of member display names. Insertion order
	// is preserved and names are unique (case-sensitive). The first member
	// is always DefaultMember.
	Members []string `json:"members"`

	// CreatedBy is the actor ID that created the group.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp (milliseconds) of creation.
	CreatedAt int64 `json:"createdAt"`
}

// NewGroup builds a group for the given creator with the implicit "You"
// member. The ID and CreatedAt are assigned by the store.
func NewGroup(name, createdBy string) (*Group, error) {
	if name == "" {
		return nil, ErrEmptyGroupName
	}
	return &Group{
		Name:      name,
		Members:   []string{DefaultMember},
		CreatedBy: createdBy,
	}, nil
}

// HasMember reports whether name is in the group's current member list.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}
