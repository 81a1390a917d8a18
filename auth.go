package picshelf

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AuthService verifies username/password pairs against stored bcrypt hashes
// and issues access tokens on success.
type AuthService struct {
	repo   GalleryRepo
	issuer *TokenIssuer
}

func NewAuthService(repo GalleryRepo, issuer *TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		issuer: issuer,
	}
}

// Login checks the given credentials and returns a signed access token.
//
// Missing fields return ErrInvalidInput. An unknown username and a wrong
// password both return the same ErrUnauthorized, so callers cannot enumerate
// usernames. The stored hash never leaves this method.
func (a *AuthService) Login(ctx context.Context, username, password string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, fmt.Errorf("login: %w", err)
	}

	if username == "" || password == "" {
		return Token{}, fmt.Errorf("login: %w: username and password are required", ErrInvalidInput)
	}

	user, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Token{}, fmt.Errorf("login: %w", ErrUnauthorized)
		}
		return Token{}, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Token{}, fmt.Errorf("login: %w", ErrUnauthorized)
	}

	token, err := a.issuer.Issue(user)
	if err != nil {
		return Token{}, fmt.Errorf("login: %w", err)
	}

	return token, nil
}

// Register hashes the password and inserts a new user row. It backs the
// administrative seeding command and is never routed over HTTP. Returns
// ErrConflict when the username is taken.
func (a *AuthService) Register(ctx context.Context, username, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}

	if username == "" || password == "" {
		return User{}, fmt.Errorf("register: %w: username and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}

	user, err := a.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		return User{}, fmt.Errorf("register %s: %w", username, err)
	}

	return user, nil
}
