package rolesync

import (
	"context"
	"errors"
	"fmt"

	"pubgbot/internal/rank"

	"github.com/rs/zerolog"
)

type Outcome int

const (
	// The sync stopped on an error that is not one of the outcomes below
	Failed Outcome = iota
	Applied
	NoRankedData
	RoleNotFound
	PartialCatalogFailure
)

func (outcome Outcome) String() string {
	switch outcome {
	case Failed:
		return "failed"
	case Applied:
		return "applied"
	case NoRankedData:
		return "no ranked data"
	case RoleNotFound:
		return "role not found"
	case PartialCatalogFailure:
		return "partial catalog failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
}

type Result struct {
	Outcome Outcome
	Tier    *rank.Tier
	Role    *Role
	// False when the member already held exactly the expected roles
	Changed bool
	// Tier roles that could not be created during this run
	CatalogFailures []TierOutcome
}

type Syncer struct {
	table      rank.Table
	catalog    *Catalog
	reconciler *Reconciler
	logger     zerolog.Logger
}

func NewSyncer(table rank.Table, logger zerolog.Logger) *Syncer {
	catalog := NewCatalog(table.Tiers(), logger)
	return &Syncer{
		table:      table,
		catalog:    catalog,
		reconciler: NewReconciler(catalog, logger),
		logger:     logger,
	}
}

func (syncer *Syncer) Catalog() *Catalog {
	return syncer.catalog
}

// Bring the member's tier role in line with the snapshot.
//
// A snapshot without populated modes returns NoRankedData and touches nothing.
// Every hard failure leaves the member's roles as they were: RoleNotFound is
// returned together with ErrRoleNotFound, a failed replace with
// ErrMemberUpdateFailed.
func (syncer *Syncer) Sync(ctx context.Context, directory RoleDirectory, member Member, snapshot rank.Snapshot) (Result, error) {

	logger := loggerFrom(ctx, syncer.logger).With().
		Str("server", directory.Id()).
		Str("member", member.Id()).
		Str("season", snapshot.SeasonId).
		Logger()

	tier, ok := syncer.table.Classify(snapshot)
	if !ok {
		logger.Info().Msg("no ranked data in snapshot, leaving roles untouched")
		return Result{Outcome: NoRankedData}, nil
	}
	logger.Debug().Str("tier", tier.Name).Int("modes", snapshot.Populated()).Msg("snapshot classified")

	outcomes, err := syncer.catalog.EnsureAllTiersExist(ctx, directory)
	if err != nil {
		return Result{Outcome: Failed, Tier: &tier}, err
	}
	failures := Failures(outcomes)
	if len(failures) > 0 {
		logger.Warn().Int("failures", len(failures)).Msg("some tier roles are missing after the catalog pass")
	}

	reconciliation, err := syncer.reconciler.Reconcile(ctx, member, &tier, directory)
	if err != nil {
		result := Result{Outcome: Failed, Tier: &tier, CatalogFailures: failures}
		if errors.Is(err, ErrRoleNotFound) {
			result.Outcome = RoleNotFound
		}
		logger.Error().Err(err).Str("tier", tier.Name).Msg("could not reconcile member roles")
		return result, err
	}

	result := Result{
		Outcome:         Applied,
		Tier:            &tier,
		Role:            reconciliation.Role,
		Changed:         reconciliation.Changed,
		CatalogFailures: failures,
	}
	if len(failures) > 0 {
		result.Outcome = PartialCatalogFailure
	}
	logger.Info().Str("tier", tier.Name).Bool("changed", result.Changed).Stringer("outcome", result.Outcome).Msg("member synchronised")
	return result, nil
}
