package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	appErrors "teamlookup/internal/errors"
)

// SearchTeams returns teams whose name or description contains q.Text,
// ordered by name.
func (s *Store) SearchTeams(ctx context.Context, q Query) ([]Team, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, name, description, created_at FROM teams WHERE 1 = 1`)
	if q.Text != "" {
		pattern := likePattern(q.Text)
		sb.WriteString(` AND (lower(name) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if len(q.ExcludeIDs) > 0 {
		fmt.Fprintf(&sb, ` AND id NOT IN (%s)`, placeholders(len(q.ExcludeIDs)))
		for _, id := range q.ExcludeIDs {
			args = append(args, id)
		}
	}
	sb.WriteString(` ORDER BY name COLLATE NOCASE, id LIMIT ?`)
	args = append(args, q.limit())

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, wrapQueryErr("teams", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var teams []Team
	for rows.Next() {
		var (
			t       Team
			created string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, wrapQueryErr("teams", err)
		}
		t.CreatedAt = parseTime(created)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("teams", err)
	}
	return teams, nil
}

// SearchContacts returns contacts whose name, email or title contains
// q.Text. When q.TeamID is set, people already on that team are skipped.
func (s *Store) SearchContacts(ctx context.Context, q Query) ([]Contact, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, first_name, last_name, email, title, created_at FROM contacts WHERE 1 = 1`)
	if q.Text != "" {
		pattern := likePattern(q.Text)
		sb.WriteString(` AND (lower(first_name || ' ' || last_name) LIKE ? ESCAPE '\'` +
			` OR lower(email) LIKE ? ESCAPE '\' OR lower(title) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if q.TeamID != "" {
		sb.WriteString(` AND id NOT IN (SELECT contact_id FROM team_members WHERE team_id = ?)`)
		args = append(args, q.TeamID)
	}
	if len(q.ExcludeIDs) > 0 {
		fmt.Fprintf(&sb, ` AND id NOT IN (%s)`, placeholders(len(q.ExcludeIDs)))
		for _, id := range q.ExcludeIDs {
			args = append(args, id)
		}
	}
	sb.WriteString(` ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id LIMIT ?`)
	args = append(args, q.limit())

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, wrapQueryErr("contacts", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, wrapQueryErr("contacts", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("contacts", err)
	}
	return contacts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (Contact, error) {
	var (
		c       Contact
		created string
	)
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Title, &created); err != nil {
		return Contact{}, err
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

// Team loads a single team.
func (s *Store) Team(ctx context.Context, id string) (Team, error) {
	var (
		t       Team
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("team %q not found", id), err)
	}
	if err != nil {
		return Team{}, wrapQueryErr("team", err)
	}
	t.CreatedAt = parseTime(created)
	return t, nil
}

// Members lists the current members of a team, oldest first.
func (s *Store) Members(ctx context.Context, teamID string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.team_id, m.contact_id, m.created_at,
		       c.id, c.first_name, c.last_name, c.email, c.title, c.created_at
		FROM team_members m
		JOIN contacts c ON c.id = m.contact_id
		WHERE m.team_id = ?
		ORDER BY m.created_at, c.last_name COLLATE NOCASE, c.id
	`, teamID)
	if err != nil {
		return nil, wrapQueryErr("members", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var members []Member
	for rows.Next() {
		var (
			m             Member
			joined, since string
		)
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.ContactID, &joined,
			&m.Contact.ID, &m.Contact.FirstName, &m.Contact.LastName,
			&m.Contact.Email, &m.Contact.Title, &since,
		); err != nil {
			return nil, wrapQueryErr("members", err)
		}
		m.CreatedAt = parseTime(joined)
		m.Contact.CreatedAt = parseTime(since)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("members", err)
	}
	return members, nil
}
