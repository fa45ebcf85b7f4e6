package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teraclinic/clinic-api/internal/email"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/auth"
	"github.com/teraclinic/clinic-api/pkg/security"
)

// Credential failures collapse into model.ErrInvalidCredentials so the
// response never reveals which field was wrong.

type Service struct {
	users    repository.UserRepository
	patients repository.PatientRepository
	settings repository.SettingsRepository
	tokens   repository.TokenRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	emailSvc email.Service
}

func NewService(
	users repository.UserRepository,
	patients repository.PatientRepository,
	settings repository.SettingsRepository,
	tokens repository.TokenRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	emailSvc email.Service,
) *Service {
	return &Service{
		users:    users,
		patients: patients,
		settings: settings,
		tokens:   tokens,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
	}
}

// RegisterMaster creates a clinic tenant and its single MASTER account,
// seeds the clinic settings with default quotas and signs the new
// master in.
func (s *Service) RegisterMaster(ctx context.Context, req *model.SignupRequest) (*model.TokenResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	clinicID := uuid.New()
	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     clinicID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CPF:          req.CPF,
		DateOfBirth:  req.DateOfBirth,
		Role:         model.RoleMaster,
		Permissions: []string{
			model.PermissionFinancialControl,
			model.PermissionManageTherapists,
			model.PermissionManageSchedule,
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create master user: %w", err)
	}

	settings := &model.ClinicSettings{
		Base:           model.Base{ID: uuid.New()},
		ClinicID:       clinicID,
		Name:           req.CompanyName,
		TherapistQuota: model.DefaultTherapistQuota,
		AdminQuota:     model.DefaultAdminQuota,
	}
	if err := s.settings.Create(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to create clinic settings: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome mail")
	}

	return s.issueStaffTokens(user)
}

// LoginStaff authenticates a staff member by email and password.
func (s *Service) LoginStaff(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.issueStaffTokens(user)
}

// LoginGuardian authenticates the patient portal by the exact
// (cpf, dateOfBirth) pair. The pair must resolve to exactly one active
// patient; an ambiguous match is treated as not found.
func (s *Service) LoginGuardian(ctx context.Context, cpf, dateOfBirth string) (*model.PortalTokenResponse, error) {
	patients, err := s.patients.FindByCPFAndDOB(ctx, cpf, dateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	if len(patients) != 1 {
		return nil, model.ErrInvalidCredentials
	}
	patient := patients[0]

	token, err := s.jwtSvc.GeneratePortalToken(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to generate portal token: %w", err)
	}
	return &model.PortalTokenResponse{AccessToken: token, Patient: patient}, nil
}

// RecoverAccount verifies that cpf, date of birth and email all match
// one stored user. The boolean is the whole contract; on success a
// recovery mail is sent as a courtesy and its failure is only logged.
func (s *Service) RecoverAccount(ctx context.Context, cpf, dateOfBirth, emailAddr string) (bool, error) {
	user, err := s.users.GetByRecovery(ctx, cpf, dateOfBirth, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.emailSvc.SendAccountRecovery(ctx, user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to send recovery mail")
	}
	return true, nil
}

// Logout invalidates the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	expiresAt, err := s.jwtSvc.ExpiryOf(token)
	if err != nil {
		// Malformed or already expired tokens need no denylist entry.
		return nil
	}
	if time.Now().After(expiresAt) {
		return nil
	}
	return s.tokens.Invalidate(ctx, token, expiresAt)
}

// RefreshToken exchanges a valid refresh token for a new pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return s.issueStaffTokens(user)
}

// ValidateToken verifies signature, expiry and the revocation denylist.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokens.IsInvalidated(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueStaffTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
