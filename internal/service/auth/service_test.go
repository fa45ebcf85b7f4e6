package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/auth"
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

func (f *fakeUserRepo) GetByRecovery(_ context.Context, cpf, dob, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.CPF == cpf && u.DateOfBirth == dob && u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }
func (f *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error   { return nil }

func (f *fakeUserRepo) List(_ context.Context, _ uuid.UUID) ([]*model.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, clinicID uuid.UUID, role string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.ClinicID == clinicID && u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakePatientRepo struct {
	patients []*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) FindByCPFAndDOB(_ context.Context, cpf, dob string) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		if p.CPF == cpf && p.DateOfBirth == dob {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }

func (f *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return f.patients, nil
}

type fakeSettingsRepo struct {
	created *model.ClinicSettings
}

func (f *fakeSettingsRepo) Create(_ context.Context, s *model.ClinicSettings) error {
	f.created = s
	return nil
}

func (f *fakeSettingsRepo) GetByClinic(_ context.Context, _ uuid.UUID) (*model.ClinicSettings, error) {
	if f.created == nil {
		return nil, repository.ErrNotFound
	}
	return f.created, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, _ *model.ClinicSettings) error { return nil }

type fakeTokenRepo struct {
	revoked map[string]time.Time
}

func (f *fakeTokenRepo) Invalidate(_ context.Context, token string, expiresAt time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeTokenRepo) IsInvalidated(_ context.Context, token string) (bool, error) {
	_, ok := f.revoked[token]
	return ok, nil
}

type fakeEmail struct {
	recoveries []string
	welcomes   []string
}

func (f *fakeEmail) SendAccountRecovery(_ context.Context, to, _ string) error {
	f.recoveries = append(f.recoveries, to)
	return nil
}

func (f *fakeEmail) SendWelcome(_ context.Context, to, _ string) error {
	f.welcomes = append(f.welcomes, to)
	return nil
}

type testEnv struct {
	svc      *Service
	users    *fakeUserRepo
	patients *fakePatientRepo
	settings *fakeSettingsRepo
	tokens   *fakeTokenRepo
	email    *fakeEmail
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    &fakeUserRepo{},
		patients: &fakePatientRepo{},
		settings: &fakeSettingsRepo{},
		tokens:   &fakeTokenRepo{},
		email:    &fakeEmail{},
	}
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	env.svc = NewService(env.users, env.patients, env.settings, env.tokens,
		security.NewBcryptHasher(bcrypt.MinCost), jwtSvc, env.email)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     uuid.New(),
		Name:         "Ana Souza",
		Email:        email,
		PasswordHash: string(hash),
		CPF:          "52998224725",
		DateOfBirth:  "1990-03-15",
		Role:         model.RoleTherapist,
	}
	e.users.users = append(e.users.users, user)
	return user
}

func TestLoginStaff(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ana@clinic.com", "s3cret-pass")
	ctx := context.Background()

	resp, err := env.svc.LoginStaff(ctx, "ana@clinic.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ana@clinic.com", resp.User.Email)
}

func TestLoginStaffRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ana@clinic.com", "s3cret-pass")
	ctx := context.Background()

	// Wrong password and unknown email fail with the same error.
	_, err := env.svc.LoginStaff(ctx, "ana@clinic.com", "wrong-pass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = env.svc.LoginStaff(ctx, "nobody@clinic.com", "s3cret-pass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginGuardian(t *testing.T) {
	env := newTestEnv()
	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    uuid.New(),
		Name:        "Pedro Lima",
		CPF:         "52998224725",
		DateOfBirth: "2015-06-01",
	}
	env.patients.patients = append(env.patients.patients, patient)

	resp, err := env.svc.LoginGuardian(context.Background(), "52998224725", "2015-06-01")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, patient.ID, resp.Patient.ID)
}

func TestLoginGuardianRequiresExactPair(t *testing.T) {
	env := newTestEnv()
	env.patients.patients = append(env.patients.patients, &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		CPF:         "52998224725",
		DateOfBirth: "2015-06-01",
	})

	_, err := env.svc.LoginGuardian(context.Background(), "52998224725", "2015-06-02")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = env.svc.LoginGuardian(context.Background(), "11144477735", "2015-06-01")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginGuardianAmbiguousPairFails(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 2; i++ {
		env.patients.patients = append(env.patients.patients, &model.Patient{
			Base:        model.Base{ID: uuid.New()},
			CPF:         "52998224725",
			DateOfBirth: "2015-06-01",
		})
	}

	_, err := env.svc.LoginGuardian(context.Background(), "52998224725", "2015-06-01")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestRegisterMaster(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.RegisterMaster(context.Background(), &model.SignupRequest{
		Name:        "Maria Dias",
		CompanyName: "Clínica Bem Viver",
		Email:       "maria@bemviver.com",
		Password:    "long-enough-pass",
		CPF:         "52998224725",
		DateOfBirth: "1985-11-20",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleMaster, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)

	// Settings row seeded with the default quotas for the new tenant.
	require.NotNil(t, env.settings.created)
	assert.Equal(t, resp.User.ClinicID, env.settings.created.ClinicID)
	assert.Equal(t, "Clínica Bem Viver", env.settings.created.Name)
	assert.Equal(t, model.DefaultTherapistQuota, env.settings.created.TherapistQuota)
	assert.Equal(t, model.DefaultAdminQuota, env.settings.created.AdminQuota)

	assert.Equal(t, []string{"maria@bemviver.com"}, env.email.welcomes)
}

func TestRegisterMasterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "maria@bemviver.com", "s3cret-pass")

	_, err := env.svc.RegisterMaster(context.Background(), &model.SignupRequest{
		Name:        "Maria Dias",
		CompanyName: "Clínica Bem Viver",
		Email:       "maria@bemviver.com",
		Password:    "long-enough-pass",
		CPF:         "52998224725",
		DateOfBirth: "1985-11-20",
	})
	assert.Error(t, err)
}

func TestRecoverAccount(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ana@clinic.com", "s3cret-pass")
	ctx := context.Background()

	ok, err := env.svc.RecoverAccount(ctx, "52998224725", "1990-03-15", "ana@clinic.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ana@clinic.com"}, env.email.recoveries)

	// Two of three fields matching is not enough.
	ok, err = env.svc.RecoverAccount(ctx, "52998224725", "1990-03-15", "other@clinic.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, env.email.recoveries, 1)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ana@clinic.com", "s3cret-pass")
	ctx := context.Background()

	resp, err := env.svc.LoginStaff(ctx, "ana@clinic.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = env.svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, resp.AccessToken))

	_, err = env.svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "ana@clinic.com", "s3cret-pass")
	ctx := context.Background()

	resp, err := env.svc.LoginStaff(ctx, "ana@clinic.com", "s3cret-pass")
	require.NoError(t, err)

	refreshed, err := env.svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = env.svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
