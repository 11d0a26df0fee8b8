package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	appErrors "teamlookup/internal/errors"

	"github.com/google/uuid"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertMode picks what happens when a row with the same ID exists.
type insertMode int

const (
	insertStrict insertMode = iota
	insertOrIgnore
)

func (m insertMode) verb() string {
	if m == insertOrIgnore {
		return "INSERT OR IGNORE"
	}
	return "INSERT"
}

// AddTeam inserts a team. A blank ID gets a generated one.
func (s *Store) AddTeam(ctx context.Context, t Team) (Team, error) {
	t, _, err := s.insertTeam(ctx, s.db, t, insertStrict)
	return t, err
}

// AddContact inserts a contact. A blank ID gets a generated one.
func (s *Store) AddContact(ctx context.Context, c Contact) (Contact, error) {
	c, _, err := s.insertContact(ctx, s.db, c, insertStrict)
	return c, err
}

// insertTeam validates t and writes it, reporting how many rows changed.
func (s *Store) insertTeam(ctx context.Context, ex execer, t Team, mode insertMode) (Team, int, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return Team{}, 0, appErrors.New(appErrors.CodeInvalidRecord, "team name is required", nil)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	n, err := execRows(ctx, ex,
		mode.verb()+` INTO teams (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, formatTime(t.CreatedAt))
	if err != nil {
		return Team{}, 0, appErrors.New(appErrors.CodeStoreFailed, fmt.Sprintf("insert team %q", t.ID), err)
	}
	return t, n, nil
}

// insertContact validates c and writes it, reporting how many rows changed.
func (s *Store) insertContact(ctx context.Context, ex execer, c Contact, mode insertMode) (Contact, int, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.LastName == "" {
		return Contact{}, 0, appErrors.New(appErrors.CodeInvalidRecord, "contact last name is required", nil)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	n, err := execRows(ctx, ex,
		mode.verb()+` INTO contacts (id, first_name, last_name, email, title, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Title, formatTime(c.CreatedAt))
	if err != nil {
		return Contact{}, 0, appErrors.New(appErrors.CodeStoreFailed, fmt.Sprintf("insert contact %q", c.ID), err)
	}
	return c, n, nil
}

func execRows(ctx context.Context, ex execer, query string, args ...any) (int, error) {
	r, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CreateMemberships adds every contact to the team in one transaction.
// Nothing is written if the team or any contact is missing, or if any
// contact is already a member.
func (s *Store) CreateMemberships(ctx context.Context, teamID string, contactIDs []string) ([]Membership, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, appErrors.New(appErrors.CodeInvalidRecord, "team is required", nil)
	}
	ids := uniqueIDs(contactIDs)
	if len(ids) == 0 {
		return nil, appErrors.New(appErrors.CodeInvalidRecord, "at least one contact is required", nil)
	}

	created := make([]Membership, 0, len(ids))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM teams WHERE id = ?`, teamID, "team"); err != nil {
			return err
		}
		stamp := s.stamp()
		for _, contactID := range ids {
			if err := requireRow(ctx, tx, `SELECT 1 FROM contacts WHERE id = ?`, contactID, "contact"); err != nil {
				return err
			}
			var exists int
			err := tx.QueryRowContext(ctx,
				`SELECT 1 FROM team_members WHERE team_id = ? AND contact_id = ?`, teamID, contactID,
			).Scan(&exists)
			if err == nil {
				return appErrors.New(appErrors.CodeDuplicateMembership,
					fmt.Sprintf("contact %q is already a member of team %q", contactID, teamID), nil)
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return wrapQueryErr("membership", err)
			}

			m := Membership{ID: uuid.NewString(), TeamID: teamID, ContactID: contactID}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO team_members (id, team_id, contact_id, created_at) VALUES (?, ?, ?, ?)`,
				m.ID, m.TeamID, m.ContactID, stamp,
			); err != nil {
				return appErrors.New(appErrors.CodeStoreFailed, "insert membership", err)
			}
			m.CreatedAt = parseTime(stamp)
			created = append(created, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func requireRow(ctx context.Context, tx *sql.Tx, query, id, what string) error {
	var one int
	err := tx.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("%s %q not found", what, id), err)
	}
	if err != nil {
		return wrapQueryErr(what, err)
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
