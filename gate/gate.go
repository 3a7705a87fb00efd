// Package gate decides whether a user may act on a resource. Each resource
// type has one Policy registered at startup.
package gate

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the policy denies the action or no user is given.
	ErrUnauthorized = errors.New("gate: unauthorized")
	// ErrNoPolicy is returned for a resource type nothing was registered for.
	ErrNoPolicy = errors.New("gate: no policy for resource type")
)

// Action is the operation being checked.
type Action string

// ActionDelete covers removing a post or a comment.
const ActionDelete Action = "delete"

// Policy decides one resource type.
type Policy interface {
	Can(ctx context.Context, userID string, action Action, resource any) bool
}

// Gate maps resource types to policies. Register everything before the
// first Authorize; the map is not guarded.
type Gate struct {
	policies map[string]Policy
}

func New() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register sets the policy for resourceType, replacing any previous one.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize returns nil when userID may perform action on resource. Denials
// wrap ErrUnauthorized with the action and resource type.
func (g *Gate) Authorize(ctx context.Context, userID string, action Action, resourceType string, resource any) error {
	p, ok := g.policies[resourceType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoPolicy, resourceType)
	}
	if userID == "" || !p.Can(ctx, userID, action, resource) {
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, action, resourceType)
	}
	return nil
}
