// Package actorcontext carries the authenticated actor through request
// contexts. Authentication itself happens upstream; handlers only need the
// resolved user id and role.
package actorcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Role is an application role, mirrored from the users table.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleStaff      Role = "STAFF"
	RoleAccountant Role = "ACCOUNTANT"
)

// Actor identifies who is performing a request.
type Actor struct {
	UserID snowflake.ID
	Role   Role
}

// CanReview reports whether the actor may upload, edit and submit invoices.
func (a Actor) CanReview() bool {
	return a.Role == RoleOwner || a.Role == RoleStaff
}

// CanApprove reports whether the actor may approve or reject invoices.
func (a Actor) CanApprove() bool {
	return a.Role == RoleOwner
}

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor from context, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UserID == 0 {
		return Actor{}, false
	}
	return actor, true
}
