package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*user.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return &pq.Error{Code: "23505", Constraint: "users_email_key"}
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range f.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]*user.User, error) { return nil, nil }
func (f *fakeUserRepo) DeleteUser(context.Context, string) error        { return nil }

func newTestService(repo user.Repository) Service {
	return NewService(repo, []byte("test-signing-key"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	u, pair, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleCustomer, u.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	got, loginPair, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, loginPair.AccessToken)

	claims := svc.Verify(loginPair.AccessToken)
	require.NotNil(t, claims)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, string(user.RoleCustomer), claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, _, err := svc.Register(context.Background(), RegisterRequest{Email: "", Password: "pw"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, _, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: ""})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	first, _, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "pw1"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "pw2"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// first account must be untouched
	stored, err := repo.GetUserByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	_, _, err = svc.Login(context.Background(), "a@b.c", "pw1")
	assert.NoError(t, err)
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	_, _, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "right"})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@b.c", "whatever")
	_, _, wrongErr := svc.Login(context.Background(), "a@b.c", "wrong")

	assert.Equal(t, apperror.KindAuth, apperror.KindOf(unknownErr))
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(wrongErr))
	assert.Equal(t, apperror.UserMessage(unknownErr), apperror.UserMessage(wrongErr))
}

func TestRefresh(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	_, pair, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotNil(t, svc.Verify(fresh.AccessToken))

	_, err = svc.Refresh("not-a-token")
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	other := NewService(newFakeUserRepo(), []byte("another-key"))

	_, pair, err := other.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(pair.AccessToken))
	assert.Nil(t, svc.Verify("garbage"))
}
