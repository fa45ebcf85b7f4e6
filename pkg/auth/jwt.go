package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
)

// Token scopes. Staff tokens open the dashboard; portal tokens are
// limited to one patient's portal view.
const (
	ScopeStaff  = "staff"
	ScopePortal = "portal"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token scope not valid for this resource")
)

// Claims carried by every token issued here.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id,omitempty"`
	PatientID string `json:"patient_id,omitempty"`
	ClinicID  string `json:"clinic_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Scope     string `json:"scope"`
}

type JWTService interface {
	GenerateAccessToken(user *model.User) (string, error)
	GenerateRefreshToken(user *model.User) (string, error)
	GeneratePortalToken(patient *model.Patient) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
	ValidateRefreshToken(token string) (*model.TokenClaims, error)
	// ExpiryOf reports when a token stops being valid, for denylisting.
	ExpiryOf(token string) (time.Time, error)
}

type Config struct {
	Secret        string        `yaml:"secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessExpiry  time.Duration `yaml:"access_expiry"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry"`
	PortalExpiry  time.Duration `yaml:"portal_expiry"`
}

type jwtService struct {
	cfg Config
}

func NewJWTService(cfg Config) JWTService {
	if cfg.AccessExpiry == 0 {
		cfg.AccessExpiry = 24 * time.Hour
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	if cfg.PortalExpiry == 0 {
		cfg.PortalExpiry = 12 * time.Hour
	}
	return &jwtService{cfg: cfg}
}

func (s *jwtService) GenerateAccessToken(user *model.User) (string, error) {
	return s.sign(&Claims{
		RegisteredClaims: registered(s.cfg.AccessExpiry),
		UserID:           user.ID.String(),
		ClinicID:         user.ClinicID.String(),
		Email:            user.Email,
		Role:             user.Role,
		Scope:            ScopeStaff,
	}, s.cfg.Secret)
}

func (s *jwtService) GenerateRefreshToken(user *model.User) (string, error) {
	return s.sign(&Claims{
		RegisteredClaims: registered(s.cfg.RefreshExpiry),
		UserID:           user.ID.String(),
		ClinicID:         user.ClinicID.String(),
		Email:            user.Email,
		Scope:            ScopeStaff,
	}, s.cfg.RefreshSecret)
}

func (s *jwtService) GeneratePortalToken(patient *model.Patient) (string, error) {
	return s.sign(&Claims{
		RegisteredClaims: registered(s.cfg.PortalExpiry),
		PatientID:        patient.ID.String(),
		ClinicID:         patient.ClinicID.String(),
		Scope:            ScopePortal,
	}, s.cfg.Secret)
}

func (s *jwtService) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, s.cfg.Secret)
}

func (s *jwtService) ValidateRefreshToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, s.cfg.RefreshSecret)
}

func (s *jwtService) ExpiryOf(token string) (time.Time, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

func (s *jwtService) sign(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) parse(token, secret string) (*model.TokenClaims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	out := &model.TokenClaims{
		Email: claims.Email,
		Role:  claims.Role,
		Scope: claims.Scope,
	}
	if claims.ClinicID != "" {
		id, err := uuid.Parse(claims.ClinicID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		out.ClinicID = id
	}
	if claims.UserID != "" {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		out.UserID = id
	}
	if claims.PatientID != "" {
		id, err := uuid.Parse(claims.PatientID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		out.PatientID = id
	}
	return out, nil
}

func registered(expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
}
