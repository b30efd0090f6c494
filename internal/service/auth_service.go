package service

import (
	"context"
	"errors"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	// Register creates a customer account: user row plus customer profile.
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	users      repository.UserRepository
	customers  repository.CustomerRepository
	dispatcher Notifier
	cfg        *config.Config
}

func NewAuthService(users repository.UserRepository, customers repository.CustomerRepository, dispatcher Notifier, cfg *config.Config) AuthService {
	return &authService{users: users, customers: customers, dispatcher: dispatcher, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Conflict("E-Mail-Adresse wird bereits verwendet")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.FirstName + " " + req.LastName,
		Role:         middleware.RoleCustomer,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		UserID:    user.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		// Roll the orphaned user back out so the email can be retried.
		if derr := s.users.Deactivate(ctx, user.ID); derr != nil {
			log.Warn().Err(derr).Str("user_id", user.ID.String()).Msg("auth: orphaned user cleanup failed")
		}
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.UserEventPayload{UserID: user.ID.String()}
		if err := s.dispatcher.EnqueueEvent(ctx, worker.EventUserRegistered, payload); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("auth: welcome event enqueue failed")
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same message for unknown email and wrong password.
		return nil, apierror.Validation("E-Mail oder Passwort ist falsch")
	}
	if !user.Active {
		return nil, apierror.Validation("Konto ist deaktiviert")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.Validation("E-Mail oder Passwort ist falsch")
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user is
// re-read so a deactivation takes effect on the next refresh at the latest.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validation("Refresh-Token ungültig oder abgelaufen")
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil || !user.Active {
		return nil, apierror.Validation("Konto nicht gefunden oder deaktiviert")
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	access, err := s.signToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User: dto.UserResponse{
			ID:     user.ID.String(),
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
			Active: user.Active,
		},
	}, nil
}

func (s *authService) signToken(user *model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}
