package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Group is a named, coloured roster of people waiting to be seated.  A name
// leaves Members when it is seated and comes back when its chair is vacated
// or the group is released.
type Group struct {
	ID      string   `json:"id"` // unique across the roster
	Name    string   `json:"name"`
	Color   string   `json:"color"`   // CSS colour of the group badge
	Members []string `json:"members"` // names still waiting for a chair
}

// HasMember reports whether name is in the member list.
func (g *Group) HasMember(name string) bool { return slices.Contains(g.Members, name) }

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	cp := *g
	cp.Members = append([]string{}, g.Members...)
	return &cp
}

// ParseRoster decodes the stored group list.  Ids must be unique, names are
// trimmed, and a name may only be listed once per group.  A person is
// identified by group and name together, so two groups may both list "Anna".
func ParseRoster(data []byte) ([]*Group, error) {
	var groups []*Group
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("%w: group roster: %v", ErrInvalidFormat, err)
	}
	if err := ValidateRoster(groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ValidateRoster normalizes member names in place and checks the roster.
func ValidateRoster(groups []*Group) error {
	ids := make(map[string]struct{}, len(groups))
	for i, g := range groups {
		if g == nil || strings.TrimSpace(g.ID) == "" {
			return fmt.Errorf("%w: group %d has no id", ErrInvalidFormat, i)
		}
		if _, dup := ids[g.ID]; dup {
			return fmt.Errorf("%w: duplicate group id %s", ErrInvalidFormat, g.ID)
		}
		ids[g.ID] = struct{}{}
		if g.Members == nil {
			g.Members = []string{}
		}
		listed := make(map[string]struct{}, len(g.Members))
		for j, name := range g.Members {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("%w: group %s has an empty member name", ErrInvalidFormat, g.ID)
			}
			if _, dup := listed[name]; dup {
				return fmt.Errorf("%w: %q listed twice in group %s", ErrInvalidFormat, name, g.ID)
			}
			listed[name] = struct{}{}
			g.Members[j] = name
		}
	}
	return nil
}
