package services

import (
	"context"

	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/metrics"
	"github.com/diewo77/devconnect/internal/store"
)

// AccountService handles account deletion.
type AccountService struct {
	store store.Store
}

func NewAccountService(s store.Store) *AccountService {
	return &AccountService{store: s}
}

// Delete removes the caller's profile and then the user. Both deletes are
// idempotent so a retried request finishes the job. Posts and comments
// keep their author snapshot.
func (s *AccountService) Delete(ctx context.Context, userID string) error {
	if err := s.store.DeleteProfileByUser(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	metrics.RecordProfileWrite("delete_account")
	return nil
}
