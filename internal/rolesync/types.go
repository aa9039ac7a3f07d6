package rolesync

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var (
	ErrRoleNotFound       = errors.New("tier role not found on the server")
	ErrRoleCreationFailed = errors.New("tier role could not be created")
	ErrMemberUpdateFailed = errors.New("member roles could not be updated")
)

// Use the logger carried by the context, so the fields of the invocation
// reach these logs, or the given one when the context has none
func loggerFrom(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled || logger == zerolog.DefaultContextLogger {
		return fallback
	}
	return *logger
}

type Role struct {
	Id          string
	Name        string
	Color       int
	Mentionable bool
}

type RoleSpec struct {
	Name        string
	Color       int
	Mentionable bool
}

// The set of roles that exist on one server.
// Roles are only ever listed and created through it, never deleted
type RoleDirectory interface {
	Id() string
	Roles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, spec RoleSpec) (Role, error)
}

// The roles assigned to one member of a server
type Member interface {
	Id() string
	RoleIds(ctx context.Context) ([]string, error)
	// Replace the complete role list in a single call
	ReplaceRoles(ctx context.Context, roleIds []string) error
}

// Keyed view over a snapshot of the directory.
// When several roles share a name, the first one listed wins
type roleIndex struct {
	byName map[string]Role
	byId   map[string]Role
}

func newRoleIndex(roles []Role) roleIndex {
	index := roleIndex{
		byName: make(map[string]Role, len(roles)),
		byId:   make(map[string]Role, len(roles)),
	}
	for _, role := range roles {
		index.add(role)
	}
	return index
}

func (index *roleIndex) add(role Role) {
	if _, ok := index.byName[role.Name]; !ok {
		index.byName[role.Name] = role
	}
	index.byId[role.Id] = role
}
