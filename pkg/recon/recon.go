// Package recon runs the lookup pipeline: resolve the query to a user ID,
// fetch the profile, render it, then enrich the report with the
// best-effort obfuscated contact lookup.
package recon

import (
	"context"
	"fmt"
	"io"
	"time"

	"instarecon/pkg/instagram"
	"instarecon/pkg/logger"
	"instarecon/pkg/report"
)

// API is the subset of the Instagram client the pipeline needs
type API interface {
	Resolve(ctx context.Context, q instagram.SearchQuery) instagram.LookupResult
	FetchProfile(ctx context.Context, userID string) instagram.ProfileResult
	LookupObfuscated(ctx context.Context, username string) instagram.ContactLookupResult
}

// Result is everything a successful run gathered
type Result struct {
	Query     instagram.SearchQuery
	UserID    string
	Profile   instagram.Profile
	Contact   instagram.ContactLookupResult
	FetchedAt time.Time
}

// Runner executes the pipeline and writes the report to out
type Runner struct {
	api   API
	out   io.Writer
	log   logger.Logger
	debug bool
}

// NewRunner creates a runner. debug appends the raw field dump to the report.
func NewRunner(api API, out io.Writer, log logger.Logger, debug bool) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Runner{api: api, out: out, log: log, debug: debug}
}

// Run performs one lookup. The first resolve or fetch failure is returned
// and nothing is written; contact lookup failures are rendered inline.
// A cancelled context aborts between steps with ctx.Err().
func (r *Runner) Run(ctx context.Context, q instagram.SearchQuery) (*Result, error) {
	log := r.log.WithField("query", q.String())

	lookup := r.api.Resolve(ctx, q)
	if lookup.Err != nil {
		log.WithError(lookup.Err).Debug("resolve failed")
		return nil, cancelled(ctx, lookup.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log = log.WithField("user_id", lookup.ID)
	log.Debug("resolved user id")

	profile := r.api.FetchProfile(ctx, lookup.ID)
	if profile.Err != nil {
		log.WithError(profile.Err).Debug("profile fetch failed")
		return nil, cancelled(ctx, profile.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(r.out, report.Render(profile.Profile)); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	contact := r.lookupContact(ctx, log, profile.Profile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tail := report.RenderContact(contact) + report.Footer()
	if r.debug {
		tail += report.RenderDebug(profile.Profile)
	}
	if _, err := io.WriteString(r.out, tail); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return &Result{
		Query:     q,
		UserID:    lookup.ID,
		Profile:   profile.Profile,
		Contact:   contact,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// lookupContact runs the obfuscated lookup for the profile's username. A
// profile without a username has nothing to look up and yields an empty
// payload.
func (r *Runner) lookupContact(ctx context.Context, log logger.Logger, p instagram.Profile) instagram.ContactLookupResult {
	username, _ := p["username"].(string)
	if username == "" {
		log.Warn("profile has no username, skipping contact lookup")
		return instagram.ContactLookupResult{Payload: instagram.Profile{}}
	}

	res := r.api.LookupObfuscated(ctx, username)
	if res.Err != nil {
		log.WithError(res.Err).Info("contact lookup failed")
	}
	return res
}

// cancelled prefers the context error so callers can tell an interrupt from
// a failed request
func cancelled(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr == context.Canceled {
		return ctxErr
	}
	return err
}
