// Package rolesync keeps the rank tier role of a server member in line with
// the member's season statistics.
//
// The work is split in three steps that always run in this order:
// the snapshot is classified into a tier, the catalog makes sure every tier
// role exists on the server, and the reconciler replaces the member's role
// list so it holds exactly one tier role next to the untouched non-tier roles.
//
// The chat platform is only reached through the RoleDirectory and Member
// interfaces, so nothing here depends on a platform client.
package rolesync
