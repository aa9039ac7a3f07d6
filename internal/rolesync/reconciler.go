package rolesync

import (
	"context"
	"fmt"

	"pubgbot/internal/rank"

	"github.com/rs/zerolog"
)

// What the reconciler left on the member
type Reconciliation struct {
	Role    *Role
	RoleIds []string
	Changed bool
}

type Reconciler struct {
	catalog *Catalog
	logger  zerolog.Logger
}

func NewReconciler(catalog *Catalog, logger zerolog.Logger) *Reconciler {
	return &Reconciler{catalog: catalog, logger: logger}
}

// Move the member to its current non-tier roles plus the role of the target
// tier, or no tier role at all when target is nil.
//
// The new role list is written in one replace call, and only if it differs
// from the current one. If the target role does not exist on the server the
// member is left untouched and ErrRoleNotFound is returned.
func (reconciler *Reconciler) Reconcile(ctx context.Context, member Member, target *rank.Tier, directory RoleDirectory) (Reconciliation, error) {

	roles, err := directory.Roles(ctx)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("could not list roles of server %s: %w", directory.Id(), err)
	}
	index := newRoleIndex(roles)

	current, err := member.RoleIds(ctx)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("could not read roles of member %s: %w", member.Id(), err)
	}

	// Partition the current roles. Ids unknown to the directory are kept as they are
	desired := make([]string, 0, len(current)+1)
	tierRoles := 0
	for _, id := range current {
		if role, ok := index.byId[id]; ok && reconciler.catalog.IsTierRole(role.Name) {
			tierRoles++
			continue
		}
		desired = append(desired, id)
	}

	var applied *Role
	if target != nil {
		role, ok := index.byName[target.RoleName()]
		if !ok {
			return Reconciliation{}, fmt.Errorf("%w: %s", ErrRoleNotFound, target.RoleName())
		}
		applied = &role
		desired = append(desired, role.Id)
	}

	logger := loggerFrom(ctx, reconciler.logger).With().Str("server", directory.Id()).Str("member", member.Id()).Logger()

	if sameRoles(current, desired) {
		logger.Debug().Msg("member roles already reconciled")
		return Reconciliation{Role: applied, RoleIds: desired, Changed: false}, nil
	}

	if err := member.ReplaceRoles(ctx, desired); err != nil {
		return Reconciliation{}, fmt.Errorf("%w: member %s: %w", ErrMemberUpdateFailed, member.Id(), err)
	}

	event := logger.Info().Int("tier_roles_removed", tierRoles).Int("roles", len(desired))
	if applied != nil {
		event = event.Str("role", applied.Name)
	}
	event.Msg("member roles replaced")

	return Reconciliation{Role: applied, RoleIds: desired, Changed: true}, nil
}

// Role lists are compared as sets, the platform does not keep an order
func sameRoles(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}
