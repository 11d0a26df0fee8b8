package directory

import (
	"strings"
	"time"
)

// Team is a group that contacts can be added to.
type Team struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Contact is a person that can be made a team member.
type Contact struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Title     string
	CreatedAt time.Time
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Membership links a contact to a team.
type Membership struct {
	ID        string
	TeamID    string
	ContactID string
	CreatedAt time.Time
}

// Member is a membership together with the contact it refers to.
type Member struct {
	Membership
	Contact Contact
}

// Query narrows a team or contact search.
type Query struct {
	Text       string   // Normalized search text; empty lists everything
	ExcludeIDs []string // Records to leave out
	TeamID     string   // Contacts only: skip people already on this team
	Limit      int
}

// DefaultLimit caps searches that do not set Query.Limit.
const DefaultLimit = 50

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}
