package rolesync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var errPlatform = errors.New("missing permissions")

type fakeDirectory struct {
	mu        sync.Mutex
	id        string
	roles     []Role
	next      int
	creations int
	failNames map[string]bool
	listErr   error
	// Runs before every creation, outside the lock
	hold func(ctx context.Context) error
}

func newFakeDirectory(names ...string) *fakeDirectory {
	directory := &fakeDirectory{id: "guild-1", failNames: map[string]bool{}}
	for _, name := range names {
		directory.add(name)
	}
	return directory
}

func (directory *fakeDirectory) add(name string) Role {
	directory.next++
	role := Role{Id: fmt.Sprintf("role-%d", directory.next), Name: name}
	directory.roles = append(directory.roles, role)
	return role
}

func (directory *fakeDirectory) Id() string {
	return directory.id
}

func (directory *fakeDirectory) Roles(ctx context.Context) ([]Role, error) {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	if directory.listErr != nil {
		return nil, directory.listErr
	}
	return slices.Clone(directory.roles), nil
}

func (directory *fakeDirectory) CreateRole(ctx context.Context, spec RoleSpec) (Role, error) {
	if directory.hold != nil {
		if err := directory.hold(ctx); err != nil {
			return Role{}, err
		}
	}
	directory.mu.Lock()
	defer directory.mu.Unlock()
	if directory.failNames[spec.Name] {
		return Role{}, errPlatform
	}
	directory.creations++
	role := directory.add(spec.Name)
	role.Color = spec.Color
	role.Mentionable = spec.Mentionable
	directory.roles[len(directory.roles)-1] = role
	return role, nil
}

func (directory *fakeDirectory) count(name string) int {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	count := 0
	for _, role := range directory.roles {
		if role.Name == name {
			count++
		}
	}
	return count
}

func (directory *fakeDirectory) idOf(name string) string {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	for _, role := range directory.roles {
		if role.Name == name {
			return role.Id
		}
	}
	return ""
}

type fakeMember struct {
	id         string
	roleIds    []string
	replaces   int
	replaceErr error
}

func (member *fakeMember) Id() string {
	return member.id
}

func (member *fakeMember) RoleIds(ctx context.Context) ([]string, error) {
	return slices.Clone(member.roleIds), nil
}

func (member *fakeMember) ReplaceRoles(ctx context.Context, roleIds []string) error {
	if member.replaceErr != nil {
		return member.replaceErr
	}
	member.replaces++
	member.roleIds = slices.Clone(roleIds)
	return nil
}
