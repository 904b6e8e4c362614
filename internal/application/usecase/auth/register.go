package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/validation"
)

const MsgUserExists = "User already exists"

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

var registerMessages = validation.Messages{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

// Register creates a user with a gravatar avatar and returns a token for it.
func (uc *LoginUseCase) Register(ctx context.Context, input RegisterInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if err := validation.Struct(input, registerMessages); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := uc.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, userExists()
	} else if !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		Avatar:       auth.GravatarURL(email),
		PasswordHash: hash,
		Date:         time.Now().UTC(),
	}
	if err := uc.userRepo.Save(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, userExists()
		}
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))

	token, err := uc.issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{AccessToken: token}, nil
}

func userExists() error {
	e := apperror.NewValidation([]apperror.FieldError{{Msg: MsgUserExists}})
	e.Err = user.ErrEmailTaken
	return e
}
