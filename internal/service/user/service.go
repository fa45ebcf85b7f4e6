package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/security"
)

// ErrQuotaReached is returned when the clinic has no free seat for the
// requested role. Its text is shown to the user as-is.
var ErrQuotaReached = errors.New("no license available for this role, increase the quota in account management")

// LicenseChecker gates seat creation against the clinic's quotas.
type LicenseChecker interface {
	CanCreateUser(ctx context.Context, clinicID uuid.UUID, role string) (bool, error)
}

type Service struct {
	repo    repository.UserRepository
	license LicenseChecker
	hasher  security.PasswordHasher
}

func NewService(repo repository.UserRepository, license LicenseChecker, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, license: license, hasher: hasher}
}

// Create adds a staff member to the clinic. THERAPIST and ADMIN seats
// are license-gated; a second MASTER can never be created here.
func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateUserRequest) (*model.User, error) {
	if !model.IsLicensedRole(req.Role) {
		return nil, fmt.Errorf("role %s cannot be created", req.Role)
	}

	ok, err := s.license.CanCreateUser(ctx, clinicID, req.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to check license: %w", err)
	}
	if !ok {
		return nil, ErrQuotaReached
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
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

	user := &model.User{
		Base:          model.Base{ID: uuid.New()},
		ClinicID:      clinicID,
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		CPF:           req.CPF,
		DateOfBirth:   req.DateOfBirth,
		Role:          req.Role,
		Permissions:   req.Permissions,
		CouncilType:   req.CouncilType,
		CouncilNumber: req.CouncilNumber,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	return s.repo.List(ctx, clinicID)
}

// Update edits a staff member's profile and permissions. Role changes
// are not supported; seats move only by delete and re-create.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Permissions != nil {
		user.Permissions = req.Permissions
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.CouncilType != nil {
		user.CouncilType = req.CouncilType
	}
	if req.CouncilNumber != nil {
		user.CouncilNumber = req.CouncilNumber
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a staff member, freeing the seat. The MASTER account
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleMaster {
		return fmt.Errorf("master account cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}
