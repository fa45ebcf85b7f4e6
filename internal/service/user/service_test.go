package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByRecovery(_ context.Context, _, _, _ string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _ uuid.UUID) ([]*model.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, _ uuid.UUID, role string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeLicense struct {
	allow bool
}

func (f *fakeLicense) CanCreateUser(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return f.allow, nil
}

func newTestService(allow bool) (*Service, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	svc := NewService(repo, &fakeLicense{allow: allow}, security.NewBcryptHasher(bcrypt.MinCost))
	return svc, repo
}

func createReq() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Name:        "Ana Souza",
		Email:       "ana@clinic.com",
		Password:    "long-enough-pass",
		CPF:         "52998224725",
		DateOfBirth: "1990-03-15",
		Role:        model.RoleTherapist,
		Permissions: []string{model.PermissionManageSchedule},
	}
}

func TestCreateUser(t *testing.T) {
	svc, repo := newTestService(true)

	user, err := svc.Create(context.Background(), uuid.New(), createReq())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, model.RoleTherapist, user.Role)
	assert.NotEqual(t, "long-enough-pass", user.PasswordHash)
	assert.Len(t, repo.users, 1)
}

func TestCreateUserBlockedByQuota(t *testing.T) {
	svc, repo := newTestService(false)

	_, err := svc.Create(context.Background(), uuid.New(), createReq())
	assert.ErrorIs(t, err, ErrQuotaReached)
	assert.Empty(t, repo.users)
}

func TestCreateUserRejectsMasterRole(t *testing.T) {
	svc, _ := newTestService(true)

	req := createReq()
	req.Role = model.RoleMaster
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.Error(t, err)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newTestService(true)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), createReq())
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), createReq())
	assert.Error(t, err)
	assert.Len(t, repo.users, 1)
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newTestService(true)
	ctx := context.Background()

	user, err := svc.Create(ctx, uuid.New(), createReq())
	require.NoError(t, err)

	name := "Ana S. Lima"
	updated, err := svc.Update(ctx, user.ID, &model.UpdateUserRequest{
		Name:        &name,
		Permissions: []string{model.PermissionFinancialControl},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana S. Lima", updated.Name)
	assert.Equal(t, []string{model.PermissionFinancialControl}, []string(updated.Permissions))
	assert.Equal(t, model.RoleTherapist, updated.Role)
}

func TestDeleteUserProtectsMaster(t *testing.T) {
	svc, repo := newTestService(true)
	master := &model.User{
		Base: model.Base{ID: uuid.New()},
		Role: model.RoleMaster,
	}
	repo.users = append(repo.users, master)

	err := svc.Delete(context.Background(), master.ID)
	assert.Error(t, err)
	assert.Len(t, repo.users, 1)
}
