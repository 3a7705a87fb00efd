package policy

import (
	"context"

	"github.com/diewo77/devconnect/gate"
	"github.com/diewo77/devconnect/internal/models"
)

// Resource type names registered on the gate.
const (
	ResourcePost    = "post"
	ResourceComment = "comment"
)

// OwnershipPolicy allows an action only to the user who owns the resource.
// Works with any model that implements models.Ownable.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can reports whether userID owns resource. Anything that is not Ownable,
// nil included, is denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID string, _ gate.Action, resource any) bool {
	ownable, ok := resource.(models.Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// NewGate returns the gate used by the post service, with ownership
// policies for posts and comments.
func NewGate() *gate.Gate {
	g := gate.New()
	owner := NewOwnershipPolicy()
	g.Register(ResourcePost, owner)
	g.Register(ResourceComment, owner)
	return g
}
