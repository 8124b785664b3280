package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/config"
	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/repository/mongodb"
	"github.com/fabstash/backend/pkg/clients/wechat"
)

// ErrLoginFailed covers a rejected or failed WeChat code exchange.
var ErrLoginFailed = errors.New("wechat login failed")

// ErrUnauthorized is returned when a token is invalid or its user is gone
// or disabled.
var ErrUnauthorized = errors.New("unauthorized")

// LoginResult bundles the issued token and the user profile.
type LoginResult struct {
	Token string
	User  models.UserProfile
}

// Service exchanges WeChat login codes for users and issues access tokens.
type Service struct {
	cfg    config.AuthConfig
	client wechat.Client
	users  mongodb.UserStore
	logger *zap.Logger
}

// NewService wires the auth service.
func NewService(cfg config.AuthConfig, client wechat.Client, users mongodb.UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, client: client, users: users, logger: logger}
}

// Login exchanges the mini-program code for an openid, upserts the user and
// issues a token.
func (s *Service) Login(ctx context.Context, code string) (LoginResult, error) {
	session, err := s.client.Code2Session(ctx, code)
	if err != nil {
		s.logger.Warn("code2session failed", zap.Error(err))
		return LoginResult{}, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	user, err := s.users.UpsertByOpenID(ctx, session.OpenID, session.SessionKey)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := GenerateToken(s.cfg.JWTSecret, user.ID.Hex(), s.cfg.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: profileOf(user)}, nil
}

// UpdateProfile sets the user's nickname and avatar.
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, nickname, avatarURL string) (models.UserProfile, error) {
	user, err := s.users.UpdateProfile(ctx, userID, nickname, avatarURL)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.UserProfile{}, ErrUnauthorized
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	return profileOf(user), nil
}

// Authenticate validates a bearer token and loads its active user. The
// returned id is the ownerId every downstream query is scoped by.
func (s *Service) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims, err := ValidateToken(s.cfg.JWTSecret, token)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.User{}, ErrUnauthorized
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, ErrUnauthorized
	}

	return user, nil
}

func profileOf(user models.User) models.UserProfile {
	return models.UserProfile{
		IsNewUser:        user.Nickname == "",
		Nickname:         user.Nickname,
		AvatarURL:        user.AvatarURL,
		IsMember:         user.IsMember,
		MemberExpiryDate: user.MemberExpiryDate,
	}
}
