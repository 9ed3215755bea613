package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
	"github.com/urbancoll/artisanhub-backend/internal/modules/vendor"
)

// Service provides platform administration over users and vendors.
type Service interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListVendors(ctx context.Context) ([]*vendor.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
}

type service struct {
	users   user.Repository
	vendors vendor.Repository
}

func NewService(users user.Repository, vendors vendor.Repository) Service {
	return &service{users: users, vendors: vendors}
}

func (s *service) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return apperror.New(apperror.KindValidation, "user id is required")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.New(apperror.KindNotFound, "user not found")
		}
		return err
	}
	logx.Info().Str("user_id", id).Msg("user deleted by admin")
	return nil
}

func (s *service) ListVendors(ctx context.Context) ([]*vendor.Vendor, error) {
	return s.vendors.ListVendors(ctx)
}

func (s *service) DeleteVendor(ctx context.Context, id string) error {
	if id == "" {
		return apperror.New(apperror.KindValidation, "vendor id is required")
	}
	if err := s.vendors.DeleteVendor(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.New(apperror.KindNotFound, "vendor not found")
		}
		return err
	}
	logx.Info().Str("vendor_id", id).Msg("vendor deleted by admin")
	return nil
}
