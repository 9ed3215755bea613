package admin

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
	"github.com/urbancoll/artisanhub-backend/internal/modules/vendor"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[string]*user.User{}} }

func (f *fakeUserRepo) add(email string) *user.User {
	u := &user.User{ID: uuid.New(), Email: email, Role: user.RoleCustomer}
	f.users[u.ID.String()] = u
	return u
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *user.User) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(context.Context, string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]*user.User, error) {
	out := make([]*user.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

type fakeVendorRepo struct {
	vendors map[string]*vendor.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[string]*vendor.Vendor{}}
}

func (f *fakeVendorRepo) add(name string) *vendor.Vendor {
	v := &vendor.Vendor{ID: uuid.New(), OwnerID: uuid.New(), BusinessName: name}
	f.vendors[v.ID.String()] = v
	return v
}

func (f *fakeVendorRepo) CreateVendor(_ context.Context, v *vendor.Vendor) error {
	f.vendors[v.ID.String()] = v
	return nil
}

func (f *fakeVendorRepo) UpdateVendor(context.Context, *vendor.Vendor) error { return nil }

func (f *fakeVendorRepo) GetVendorByOwnerID(context.Context, string) (*vendor.Vendor, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeVendorRepo) ListVendors(context.Context) ([]*vendor.Vendor, error) {
	out := make([]*vendor.Vendor, 0, len(f.vendors))
	for _, v := range f.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendorRepo) DeleteVendor(_ context.Context, id string) error {
	if _, ok := f.vendors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.vendors, id)
	return nil
}

func (f *fakeVendorRepo) ListProducts(context.Context, string) ([]*vendor.ProductSummary, error) {
	return nil, nil
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakeVendorRepo())

	u := users.add("gone@example.com")
	require.NoError(t, svc.DeleteUser(context.Background(), u.ID.String()))

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeVendorRepo())
	err := svc.DeleteUser(context.Background(), uuid.NewString())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteVendorNotFound(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakeVendorRepo())
	err := svc.DeleteVendor(context.Background(), uuid.NewString())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListVendors(t *testing.T) {
	vendors := newFakeVendorRepo()
	svc := NewService(newFakeUserRepo(), vendors)

	vendors.add("Clay & Kiln")
	vendors.add("Woven Goods")

	got, err := svc.ListVendors(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
