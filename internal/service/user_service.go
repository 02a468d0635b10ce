package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

type UserService struct {
	users  UserStore
	rdb    *redis.Client
	secret []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore, rdb *redis.Client, secret string) *UserService {
	return &UserService{users: users, rdb: rdb, secret: []byte(secret)}
}

type JwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		}
		return nil, err
	}
	return user, nil
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, user *entity.User) (*entity.User, error) {
	switch {
	case user.Username == "":
		return nil, &entity.ValidationError{Field: "username"}
	case user.Email == "":
		return nil, &entity.ValidationError{Field: "email"}
	case user.Password == "":
		return nil, &entity.ValidationError{Field: "password"}
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return created, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (token string, err error) {
	user, err := s.users.GetUserByEmailAndPassword(ctx, email, password)
	if err != nil {
		return "", err
	}

	// After validation, generate JWT token
	claims := &JwtCustomClaims{
		Name:  user.Username,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	// Store the JWT token in Redis with the user email as the key
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, email, t, time.Hour*24).Err(); err != nil {
			return "", err
		}
	}

	return t, nil
}

func (s *UserService) ValidateToken(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("session not found")
	}

	token, err := s.rdb.Get(ctx, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("session not found")
		}
		return "", err
	}

	return token, nil
}
