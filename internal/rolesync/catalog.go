package rolesync

import (
	"context"
	"errors"
	"fmt"

	"pubgbot/internal/rank"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Result of making sure one tier role exists
type TierOutcome struct {
	Tier    rank.Tier
	Role    Role
	Created bool
	Err     error
}

type Catalog struct {
	tiers  []rank.Tier
	names  map[string]rank.Tier
	group  singleflight.Group
	logger zerolog.Logger
}

func NewCatalog(tiers []rank.Tier, logger zerolog.Logger) *Catalog {
	catalog := Catalog{
		tiers:  make([]rank.Tier, len(tiers)),
		names:  make(map[string]rank.Tier, len(tiers)),
		logger: logger,
	}
	copy(catalog.tiers, tiers)
	for _, tier := range tiers {
		catalog.names[tier.RoleName()] = tier
	}
	return &catalog
}

func (catalog *Catalog) Tiers() []rank.Tier {
	tiers := make([]rank.Tier, len(catalog.tiers))
	copy(tiers, catalog.tiers)
	return tiers
}

// Report whether a role name belongs to the tier taxonomy
func (catalog *Catalog) IsTierRole(name string) bool {
	_, ok := catalog.names[name]
	return ok
}

// Create every tier role missing from the directory.
//
// A failure to create one role is recorded in its outcome and does not stop
// the remaining tiers. The only error returned is a failure to list the
// directory, since nothing can be checked without it.
//
// Concurrent calls for the same server share a single pass, so two
// invocations cannot both observe a role as missing and create it twice.
// The pass runs with the context of the caller that started it. A caller
// whose own context is still live runs the pass again when the shared one was
// cut short by the context of another caller.
func (catalog *Catalog) EnsureAllTiersExist(ctx context.Context, directory RoleDirectory) ([]TierOutcome, error) {

	logger := loggerFrom(ctx, catalog.logger)

	var outcomes []TierOutcome
	for attempt := 1; ; attempt++ {
		value, err, shared := catalog.group.Do(directory.Id(), func() (any, error) {
			return catalog.ensure(ctx, directory)
		})
		if err == nil {
			outcomes = value.([]TierOutcome)
		}
		if shared && ctx.Err() == nil && attempt < maxSharedAttempts && interrupted(err, outcomes) {
			logger.Debug().Str("server", directory.Id()).Int("attempt", attempt).Msg("shared catalog pass was interrupted, running it again")
			continue
		}
		if err != nil {
			return nil, err
		}
		if shared {
			logger.Debug().Str("server", directory.Id()).Msg("joined a catalog pass already in progress")
		}
		break
	}

	result := make([]TierOutcome, len(outcomes))
	copy(result, outcomes)
	return result, nil
}

// Bound on the passes a caller runs when the shared ones keep being interrupted
const maxSharedAttempts = 3

// Report whether a pass stopped because some context ended
func interrupted(err error, outcomes []TierOutcome) bool {
	if err != nil {
		return contextEnded(err)
	}
	for _, outcome := range outcomes {
		if contextEnded(outcome.Err) {
			return true
		}
	}
	return false
}

func contextEnded(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (catalog *Catalog) ensure(ctx context.Context, directory RoleDirectory) ([]TierOutcome, error) {

	logger := loggerFrom(ctx, catalog.logger)

	roles, err := directory.Roles(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list roles of server %s: %w", directory.Id(), err)
	}
	index := newRoleIndex(roles)

	outcomes := make([]TierOutcome, 0, len(catalog.tiers))
	for _, tier := range catalog.tiers {

		name := tier.RoleName()
		if role, ok := index.byName[name]; ok {
			outcomes = append(outcomes, TierOutcome{Tier: tier, Role: role})
			continue
		}

		role, err := directory.CreateRole(ctx, RoleSpec{Name: name, Color: tier.Color, Mentionable: true})
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrRoleCreationFailed, name, err)
			logger.Warn().Err(err).Str("server", directory.Id()).Str("role", name).Msg("could not create tier role")
			outcomes = append(outcomes, TierOutcome{Tier: tier, Err: err})
			continue
		}

		logger.Info().Str("server", directory.Id()).Str("role", name).Str("role_id", role.Id).Msg("created tier role")
		index.add(role)
		outcomes = append(outcomes, TierOutcome{Tier: tier, Role: role, Created: true})
	}

	return outcomes, nil
}

// Keep only the outcomes that carry an error
func Failures(outcomes []TierOutcome) []TierOutcome {
	var failures []TierOutcome
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures = append(failures, outcome)
		}
	}
	return failures
}
