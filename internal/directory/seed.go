package directory

import (
	"context"
	"database/sql"

	appErrors "teamlookup/internal/errors"
)

var seedTeams = []Team{
	{ID: "team-platform", Name: "Platform", Description: "Core services and infrastructure"},
	{ID: "team-payments", Name: "Payments", Description: "Billing, invoices and payouts"},
	{ID: "team-mobile", Name: "Mobile", Description: "iOS and Android apps"},
	{ID: "team-support", Name: "Customer Support", Description: "Tier 1 and tier 2 support"},
	{ID: "team-data", Name: "Data Science", Description: "Analytics and forecasting"},
	{ID: "team-security", Name: "Security", Description: "Application and cloud security"},
	{ID: "team-design", Name: "Design", Description: "Product and brand design"},
}

var seedContacts = []Contact{
	{ID: "c-ada", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Title: "Principal Engineer"},
	{ID: "c-alan", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Title: "Research Lead"},
	{ID: "c-grace", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Title: "Engineering Manager"},
	{ID: "c-katherine", FirstName: "Katherine", LastName: "Johnson", Email: "katherine@example.com", Title: "Data Scientist"},
	{ID: "c-margaret", FirstName: "Margaret", LastName: "Hamilton", Email: "margaret@example.com", Title: "Staff Engineer"},
	{ID: "c-linus", FirstName: "Linus", LastName: "Torvalds", Email: "linus@example.com", Title: "Kernel Engineer"},
	{ID: "c-barbara", FirstName: "Barbara", LastName: "Liskov", Email: "barbara@example.com", Title: "Architect"},
	{ID: "c-dennis", FirstName: "Dennis", LastName: "Ritchie", Email: "dennis@example.com", Title: "Systems Engineer"},
	{ID: "c-ken", FirstName: "Ken", LastName: "Thompson", Email: "ken@example.com", Title: "Systems Engineer"},
	{ID: "c-annie", FirstName: "Annie", LastName: "Easley", Email: "annie@example.com", Title: "Mobile Engineer"},
	{ID: "c-radia", FirstName: "Radia", LastName: "Perlman", Email: "radia@example.com", Title: "Network Engineer"},
	{ID: "c-frances", FirstName: "Frances", LastName: "Allen", Email: "frances@example.com", Title: "Compiler Engineer"},
	{ID: "c-donald", FirstName: "Donald", LastName: "Knuth", Email: "donald@example.com", Title: "Technical Writer"},
	{ID: "c-joan", FirstName: "Joan", LastName: "Clarke", Email: "joan@example.com", Title: "Security Analyst"},
}

var seedMembers = [][2]string{
	{"team-platform", "c-ada"},
	{"team-platform", "c-dennis"},
	{"team-security", "c-joan"},
}

// SeedResult counts the rows Seed inserted.
type SeedResult struct {
	Teams    int
	Contacts int
	Members  int
}

// Seed loads a small demo directory. Records that already exist are left
// untouched, so seeding twice is harmless.
func (s *Store) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		stamp := formatTime(now)
		for _, t := range seedTeams {
			t.CreatedAt = now
			_, n, err := s.insertTeam(ctx, tx, t, insertOrIgnore)
			if err != nil {
				return err
			}
			res.Teams += n
		}
		for _, c := range seedContacts {
			c.CreatedAt = now
			_, n, err := s.insertContact(ctx, tx, c, insertOrIgnore)
			if err != nil {
				return err
			}
			res.Contacts += n
		}
		for _, pair := range seedMembers {
			n, err := execCount(ctx, tx,
				`INSERT OR IGNORE INTO team_members (id, team_id, contact_id, created_at) VALUES (?, ?, ?, ?)`,
				"seed-"+pair[0]+"-"+pair[1], pair[0], pair[1], stamp)
			if err != nil {
				return err
			}
			res.Members += n
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string, args ...any) (int, error) {
	n, err := execRows(ctx, tx, query, args...)
	if err != nil {
		return 0, appErrors.New(appErrors.CodeStoreFailed, "seed directory", err)
	}
	return n, nil
}
