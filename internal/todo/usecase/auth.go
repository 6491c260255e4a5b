package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gotask/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gotask/internal/todo/entity"
)

var errInvalidCredentials = pkgerror.NewUnauthorized("invalid credentials")

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

// SignUp creates a user with an empty task list and returns a token for it.
func (u *Usecase) SignUp(ctx context.Context, email, password string) (TokenResult, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return TokenResult{}, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return TokenResult{}, pkgerror.NewServer(err)
	}

	now := u.clock.Now()
	user := entity.User{
		ID:           u.id.Generate(),
		Email:        email,
		PasswordHash: hashed,
		TaskIDs:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, pkgerror.ErrDuplicate) {
			return TokenResult{}, pkgerror.NewConflict("email already registered")
		}
		return TokenResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID)

	return u.issue(user.ID)
}

// SignIn checks the credentials and returns a fresh token. Unknown emails and
// wrong passwords produce the same 401.
func (u *Usecase) SignIn(ctx context.Context, email, password string) (TokenResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return TokenResult{}, errInvalidCredentials
	}

	user, err := u.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pkgerror.ErrNotFound) {
			return TokenResult{}, errInvalidCredentials
		}
		return TokenResult{}, normalizeErr(err)
	}

	if err := u.hasher.Verify(user.PasswordHash, password); err != nil {
		return TokenResult{}, errInvalidCredentials
	}

	return u.issue(user.ID)
}

// Authenticate resolves a bearer token to the current state of its user.
func (u *Usecase) Authenticate(ctx context.Context, token string) (entity.User, error) {
	if token == "" {
		return entity.User{}, pkgerror.NewUnauthorized("missing bearer token")
	}

	userID, err := u.tokens.Verify(token)
	if err != nil {
		return entity.User{}, pkgerror.NewUnauthorized("invalid token")
	}

	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pkgerror.ErrNotFound) {
			return entity.User{}, pkgerror.NewUnauthorized("invalid token")
		}
		return entity.User{}, normalizeErr(err)
	}

	return user, nil
}

func (u *Usecase) issue(userID string) (TokenResult, error) {
	token, exp, err := u.tokens.Issue(userID)
	if err != nil {
		return TokenResult{}, pkgerror.NewServer(err)
	}
	return TokenResult{Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "is required"
	} else if !strings.Contains(email, "@") {
		fields["email"] = "must be an email address"
	}
	if password == "" {
		fields["password"] = "is required"
	} else if len(password) > maxPasswordBytes {
		fields["password"] = "must be at most 72 bytes"
	}
	if len(fields) > 0 {
		return pkgerror.NewValidation(errors.New("invalid credentials format"), fields)
	}
	return nil
}
