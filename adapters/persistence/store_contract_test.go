package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/internal/domain"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// storeContractSuite holds the behaviour every store backend must share.
// Backend suites embed it and fill the repositories in SetupSuite.
type storeContractSuite struct {
	suite.Suite
	users    user.Repository
	profiles profile.Repository
	posts    post.Repository
	tx       domain.TxManager
}

func (s *storeContractSuite) seedUser() *user.User {
	u := &user.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        uuid.NewString() + "@example.com",
		Avatar:       gofakeit.URL(),
		PasswordHash: "hashed",
		Date:         time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(s.users.Save(context.Background(), u))
	return u
}

func (s *storeContractSuite) seedProfile(u *user.User, date time.Time) *profile.Profile {
	p := profile.New(u.ID, date.UTC().Truncate(time.Millisecond))
	p.Status = "Developer"
	p.Skills = []string{"go", "sql"}
	p.GitHubUsername = gofakeit.Username()
	s.Require().NoError(s.profiles.Save(context.Background(), p))
	return p
}

func (s *storeContractSuite) Test_Profile_SaveAndFindJoinsOwner() {
	ctx := context.Background()
	u := s.seedUser()
	saved := s.seedProfile(u, time.Now())

	found, err := s.profiles.FindByUserID(ctx, u.ID)

	s.Require().NoError(err)
	s.Equal(saved.ID, found.ID)
	s.Equal(u.ID, found.UserID)
	s.Equal([]string{"go", "sql"}, found.Skills)
	s.Require().NotNil(found.Owner)
	s.Equal(u.Name, found.Owner.Name)
	s.Equal(u.Avatar, found.Owner.Avatar)
	s.Empty(found.Experience)
	s.NotNil(found.Experience)
}

func (s *storeContractSuite) Test_Profile_FindMissing() {
	_, err := s.profiles.FindByUserID(context.Background(), uuid.New())
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func (s *storeContractSuite) Test_Profile_SaveReplacesSameUser() {
	ctx := context.Background()
	u := s.seedUser()
	p := s.seedProfile(u, time.Now())

	p.Company = "Acme"
	p.Social.Twitter = "https://twitter.com/acme"
	s.Require().NoError(s.profiles.Save(ctx, p))

	all, err := s.profiles.List(ctx)
	s.Require().NoError(err)
	count := 0
	for _, candidate := range all {
		if candidate.UserID == u.ID {
			count++
			s.Equal("Acme", candidate.Company)
			s.Equal("https://twitter.com/acme", candidate.Social.Twitter)
		}
	}
	s.Equal(1, count)
}

func (s *storeContractSuite) Test_Profile_EntriesRoundTrip() {
	ctx := context.Background()
	u := s.seedUser()
	p := s.seedProfile(u, time.Now())

	to := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	older := p.AddExperience(profile.Experience{
		Title: "Engineer", Company: "Initech", From: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), To: &to,
	})
	newer := p.AddExperience(profile.Experience{
		Title: "Lead", Company: "Acme", From: to, Current: true,
	})
	edu := p.AddEducation(profile.Education{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Date(2014, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(s.profiles.Save(ctx, p))

	found, err := s.profiles.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Experience, 2)
	s.Equal(newer.ID, found.Experience[0].ID)
	s.Equal(older.ID, found.Experience[1].ID)
	s.Nil(found.Experience[0].To)
	s.Require().NotNil(found.Experience[1].To)
	s.True(to.Equal(*found.Experience[1].To))
	s.True(found.Experience[0].Current)
	s.Require().Len(found.Education, 1)
	s.Equal(edu.ID, found.Education[0].ID)
	s.Equal("CS", found.Education[0].FieldOfStudy)
}

func (s *storeContractSuite) Test_Profile_ListOrderedByDate() {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	late := s.seedProfile(s.seedUser(), base.Add(2*time.Minute))
	early := s.seedProfile(s.seedUser(), base)

	all, err := s.profiles.List(ctx)
	s.Require().NoError(err)

	var order []uuid.UUID
	for _, p := range all {
		if p.ID == early.ID || p.ID == late.ID {
			order = append(order, p.ID)
			s.NotNil(p.Owner)
		}
	}
	s.Equal([]uuid.UUID{early.ID, late.ID}, order)
}

func (s *storeContractSuite) Test_User_EmailUnique() {
	ctx := context.Background()
	u := s.seedUser()

	dup := &user.User{ID: uuid.New(), Name: "dup", Email: u.Email, PasswordHash: "x", Date: time.Now()}
	s.ErrorIs(s.users.Save(ctx, dup), user.ErrEmailTaken)

	found, err := s.users.FindByEmail(ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
}

func (s *storeContractSuite) Test_Tx_CommitsAccountDeletion() {
	ctx := context.Background()
	u := s.seedUser()
	s.seedProfile(u, time.Now())
	s.Require().NoError(s.posts.Save(ctx, &post.Post{ID: uuid.New(), UserID: u.ID, Text: gofakeit.Sentence(5), Date: time.Now()}))

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.posts.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		if err := s.profiles.DeleteByUserID(ctx, u.ID); err != nil {
			return err
		}
		return s.users.Delete(ctx, u.ID)
	})
	s.Require().NoError(err)

	n, err := s.posts.CountByUser(ctx, u.ID)
	s.Require().NoError(err)
	s.Zero(n)
	_, err = s.profiles.FindByUserID(ctx, u.ID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
	_, err = s.users.FindByID(ctx, u.ID)
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *storeContractSuite) Test_Tx_RollsBackOnError() {
	ctx := context.Background()
	u := s.seedUser()
	s.seedProfile(u, time.Now())
	s.Require().NoError(s.posts.Save(ctx, &post.Post{ID: uuid.New(), UserID: u.ID, Text: gofakeit.Sentence(5), Date: time.Now()}))
	boom := errors.New("user delete failed")

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.posts.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		if err := s.profiles.DeleteByUserID(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	n, err := s.posts.CountByUser(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
	_, err = s.profiles.FindByUserID(ctx, u.ID)
	s.NoError(err)
}

func (s *storeContractSuite) Test_Tx_RunsFailingUnitOnce() {
	ctx := context.Background()
	u := s.seedUser()
	boom := errors.New("transient")

	calls := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		calls++
		if err := s.posts.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})

	s.ErrorIs(err, boom)
	s.Equal(1, calls)
	_, err = s.users.FindByID(ctx, u.ID)
	s.NoError(err)
}
