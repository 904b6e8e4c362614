package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

const MsgInvalidCredentials = "Invalid Credentials"

var ErrInvalidCredentials = errors.New("email or password is incorrect")

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	AccessToken string
}

var loginMessages = validation.Messages{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if err := validation.Struct(input, loginMessages); err != nil {
		return nil, err
	}

	u, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := invalidCredentials()
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{AccessToken: token}, nil
}

// CurrentUser returns the authenticated user's record.
func (uc *LoginUseCase) CurrentUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewUnauthorized("Token is not valid", err)
		}
		return nil, err
	}
	return u, nil
}

func (uc *LoginUseCase) issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := uc.jwtSvc.GenerateToken(userID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", userID.String()))
		return "", apperror.NewInternal("failed to generate token", err)
	}
	return token, nil
}

func invalidCredentials() error {
	e := apperror.NewValidation([]apperror.FieldError{{Msg: MsgInvalidCredentials}})
	e.Err = ErrInvalidCredentials
	return e
}
