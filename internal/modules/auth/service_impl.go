package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	// postgres unique_violation
	uniqueViolation = pq.ErrorCode("23505")
)

type service struct {
	userRepo user.Repository
	jwtKey   []byte
}

// NewService creates a new auth service signing tokens with the given key.
func NewService(userRepo user.Repository, jwtKey []byte) Service {
	return &service{userRepo: userRepo, jwtKey: jwtKey}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*user.User, *TokenPair, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, nil, apperror.New(apperror.KindValidation, "email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         user.ParseRole(req.Role),
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, nil, apperror.New(apperror.KindConflict, "email already exists")
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, apperror.New(apperror.KindValidation, "email and password are required")
	}

	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindAuth, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperror.New(apperror.KindAuth, "invalid credentials")
	}

	pair, err := s.issuePair(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *service) Refresh(token string) (*TokenPair, error) {
	claims := s.Verify(token)
	if claims == nil {
		return nil, apperror.New(apperror.KindAuth, "invalid token")
	}
	return s.issuePair(claims.UserID, claims.Role)
}

func (s *service) Verify(token string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}

func (s *service) issuePair(userID, role string) (*TokenPair, error) {
	access, err := s.sign(userID, role, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, role, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sign(userID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}
