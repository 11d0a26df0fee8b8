package directory

import (
	"context"

	appErrors "teamlookup/internal/errors"
	"teamlookup/internal/lookup"

	"golang.org/x/time/rate"
)

// ContactIcon marks contact results; teams fall back to lookup.DefaultIcon.
const ContactIcon = "standard:contact"

// Result converts a team to a lookup result.
func (t Team) Result() lookup.Result {
	return lookup.Result{
		ID:       t.ID,
		Title:    t.Name,
		Subtitle: t.Description,
	}
}

// Result converts a contact to a lookup result. teamID is the team the
// search was scoped to, if any.
func (c Contact) Result(teamID string) lookup.Result {
	subtitle := c.Title
	if c.Email != "" {
		if subtitle != "" {
			subtitle += " • "
		}
		subtitle += c.Email
	}
	return lookup.Result{
		ID:       c.ID,
		Title:    c.FullName(),
		Subtitle: subtitle,
		Icon:     ContactIcon,
		ParentID: teamID,
		Fields: map[string]string{
			"email": c.Email,
			"title": c.Title,
		},
	}
}

// TeamProvider searches teams.
func TeamProvider(s *Store, limit int) lookup.Provider {
	return lookup.ProviderFunc(func(ctx context.Context, req lookup.SearchRequest) ([]lookup.Result, error) {
		teams, err := s.SearchTeams(ctx, Query{Text: req.Query, ExcludeIDs: req.ExcludedIDs, Limit: limit})
		if err != nil {
			return nil, appErrors.New(appErrors.CodeSearchFailed, "team search failed", err)
		}
		out := make([]lookup.Result, 0, len(teams))
		for _, t := range teams {
			out = append(out, t.Result())
		}
		return out, nil
	})
}

// ContactProvider searches contacts, skipping people already on the team
// named by the request's parent.
func ContactProvider(s *Store, limit int) lookup.Provider {
	return lookup.ProviderFunc(func(ctx context.Context, req lookup.SearchRequest) ([]lookup.Result, error) {
		contacts, err := s.SearchContacts(ctx, Query{
			Text:       req.Query,
			ExcludeIDs: req.ExcludedIDs,
			TeamID:     req.ParentID,
			Limit:      limit,
		})
		if err != nil {
			return nil, appErrors.New(appErrors.CodeSearchFailed, "contact search failed", err)
		}
		out := make([]lookup.Result, 0, len(contacts))
		for _, c := range contacts {
			out = append(out, c.Result(req.ParentID))
		}
		return out, nil
	})
}

// ThrottledProvider caps how often the wrapped provider is called. Callers
// block until a token is available or their context ends.
type ThrottledProvider struct {
	next    lookup.Provider
	limiter *rate.Limiter
}

// Throttle wraps next with a limiter allowing perSecond calls per second.
// A non-positive rate disables throttling.
func Throttle(next lookup.Provider, perSecond float64) *ThrottledProvider {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &ThrottledProvider{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// Search implements lookup.Provider.
func (p *ThrottledProvider) Search(ctx context.Context, req lookup.SearchRequest) ([]lookup.Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, appErrors.New(appErrors.CodeSearchFailed, "search throttled", err)
	}
	return p.next.Search(ctx, req)
}
