// internal/core/services/user.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// UserService lets admins manage accounts. Every change is written to the
// audit trail in the same transaction.
type UserService struct {
	store      ports.Store
	bcryptCost int
	logger     *slog.Logger
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(store ports.Store, bcryptCost int, logger *slog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		store:      store,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("service", "user")),
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

// Update applies upd to user id. Admins cannot demote themselves.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id int64, upd domain.UserUpdate) (*domain.User, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if caller.ID == id && upd.Role != nil && *upd.Role != caller.Role {
		return nil, domain.NewConflict("cannot change the role of your own account")
	}

	var hash string
	if upd.Password != nil {
		b, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(b)
	}

	var updated *domain.User
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}

		details := fmt.Sprintf("user %d: %s", id, strings.Join(upd.Changes(), ", "))
		if _, err := recordAudit(ctx, tx, caller.ID, domain.AuditUserUpdated, details); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.Int64("user_id", id),
		slog.Int64("by", caller.ID))
	return updated, nil
}

// Delete removes user id. Accounts that recorded purchases or sales stay
// and the call fails with a conflict.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if caller.ID == id {
		return domain.NewConflict("cannot delete your own account")
	}

	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.NewConflict("user %d has recorded purchases or sales", id)
			}
			return err
		}
		details := fmt.Sprintf("user %d (%s)", id, u.Email)
		_, err = recordAudit(ctx, tx, caller.ID, domain.AuditUserDeleted, details)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.Int64("user_id", id),
		slog.Int64("by", caller.ID))
	return nil
}
