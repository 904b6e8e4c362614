package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type AuthUseCaseTestSuite struct {
	suite.Suite
	users  user.Repository
	jwtSvc *auth.JWTService
	uc     *LoginUseCase
}

func (s *AuthUseCaseTestSuite) SetupTest() {
	s.users = persistence.NewMemoryStore().Users()
	s.jwtSvc = auth.NewJWTService("test-secret", time.Hour)
	s.uc = NewLoginUseCase(s.users, s.jwtSvc, logger.NewNopLogger())
}

func (s *AuthUseCaseTestSuite) Test_Register_StoresHashedUserWithAvatar() {
	out, err := s.uc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "Ada@Example.com", Password: "secret123"})
	s.Require().NoError(err)

	claims, err := s.jwtSvc.ValidateToken(out.AccessToken)
	s.Require().NoError(err)

	u, err := s.users.FindByID(context.Background(), claims.UserID)
	s.Require().NoError(err)
	s.Equal("ada@example.com", u.Email)
	s.NotEqual("secret123", u.PasswordHash)
	s.True(auth.CheckPasswordHash("secret123", u.PasswordHash))
	s.Equal(auth.GravatarURL("ada@example.com"), u.Avatar)
}

func (s *AuthUseCaseTestSuite) Test_Register_Duplicate() {
	_, err := s.uc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	s.Require().NoError(err)

	_, err = s.uc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})

	s.ErrorIs(err, user.ErrEmailTaken)
	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(MsgUserExists, appErr.Fields[0].Msg)
}

func (s *AuthUseCaseTestSuite) Test_Register_Validation() {
	_, err := s.uc.Register(context.Background(), RegisterInput{Email: "nope", Password: "123"})

	var appErr *apperror.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Require().Len(appErr.Fields, 3)
	s.Equal("Name is required", appErr.Fields[0].Msg)
	s.Equal("Please include a valid email", appErr.Fields[1].Msg)
	s.Equal("Please enter a password with 6 or more characters", appErr.Fields[2].Msg)
}

func (s *AuthUseCaseTestSuite) Test_Login() {
	_, err := s.uc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	s.Require().NoError(err)

	_, err = s.uc.Execute(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.uc.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret123"})
	s.ErrorIs(err, ErrInvalidCredentials)

	out, err := s.uc.Execute(context.Background(), LoginInput{Email: "ADA@example.com", Password: "secret123"})
	s.Require().NoError(err)
	s.NotEmpty(out.AccessToken)
}

func (s *AuthUseCaseTestSuite) Test_CurrentUser_MissingIsUnauthorized() {
	_, err := s.uc.CurrentUser(context.Background(), uuid.New())
	s.ErrorIs(err, apperror.ErrUnauthorized)
}

func TestAuthUseCase(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}
