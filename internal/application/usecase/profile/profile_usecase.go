package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

const (
	MsgNoOwnProfile  = "There is no profile for this User"
	MsgNoUserProfile = "There is no profile for this user"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	postRepo    post.Repository
	tx          domain.TxManager
	repos       service.RepoFetcher
	events      service.EventPublisher
	logger      logger.Logger
	siteURL     string
	now         func() time.Time
}

type Deps struct {
	Profiles profile.Repository
	Users    user.Repository
	Posts    post.Repository
	Tx       domain.TxManager
	Repos    service.RepoFetcher
	Events   service.EventPublisher
	Logger   logger.Logger
	// SiteURL is the web client's base URL used for feed links.
	SiteURL string
}

func NewProfileUseCase(d Deps) *ProfileUseCase {
	events := d.Events
	if events == nil {
		events = service.NopPublisher{}
	}
	siteURL := strings.TrimRight(d.SiteURL, "/")
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	return &ProfileUseCase{
		profileRepo: d.Profiles,
		userRepo:    d.Users,
		postRepo:    d.Posts,
		tx:          d.Tx,
		repos:       d.Repos,
		events:      events,
		logger:      d.Logger,
		siteURL:     siteURL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ProfileUseCase) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "GetOwnProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, uc.lookupError(err, MsgNoOwnProfile, userID.String())
	}
	return p, nil
}

func (uc *ProfileUseCase) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if profiles == nil {
		profiles = []*profile.Profile{}
	}
	return profiles, nil
}

// GetProfileByUserID treats a malformed id exactly like a user without a profile.
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, rawUserID string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "GetProfileByUserID")
	defer span.End()

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, apperror.NewNotFound(MsgNoUserProfile, "malformed user id '"+rawUserID+"'")
	}

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, uc.lookupError(err, MsgNoUserProfile, rawUserID)
	}
	return p, nil
}

type requiredProfileFields struct {
	Status string `json:"status" validate:"required"`
	Skills string `json:"skills" validate:"required"`
}

var profileMessages = validation.Messages{
	"status": "Status is Required",
	"skills": "Skills is Required",
}

// UpsertProfile creates the user's profile or merges fields into the existing one.
func (uc *ProfileUseCase) UpsertProfile(ctx context.Context, userID uuid.UUID, fields profile.Fields) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	required := requiredProfileFields{Status: deref(fields.Status), Skills: deref(fields.Skills)}
	if err := validation.Struct(required, profileMessages); err != nil {
		return nil, err
	}

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(userID, uc.now())
		span.SetAttributes(attribute.Bool("created", true))
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	p.Apply(fields)

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Re-read so a created profile carries the owner join like an updated one.
	saved, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.publish(ctx, profile.EventUpserted, saved)
	return saved, nil
}

// DeleteAccount removes the user's posts, profile and user record, in that
// order, inside one transaction.
func (uc *ProfileUseCase) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	var githubUsername string
	if p, err := uc.profileRepo.FindByUserID(ctx, userID); err == nil {
		githubUsername = p.GitHubUsername
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.postRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := uc.profileRepo.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return uc.userRepo.Delete(ctx, userID)
	})
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Account deletion rolled back", err, zap.String("user_id", userID.String()))
		return err
	}

	uc.publishEvent(ctx, profile.Event{
		Type:           profile.EventAccountDeleted,
		UserID:         userID,
		GitHubUsername: githubUsername,
		OccurredAt:     uc.now(),
	})
	return nil
}

// FetchGithubRepos proxies to the repository fetcher. Every failure is an upstream error.
func (uc *ProfileUseCase) FetchGithubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "FetchGithubRepos")
	defer span.End()
	span.SetAttributes(attribute.String("github_username", username))

	repos, err := uc.repos.FetchRepos(ctx, username)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrUpstream) {
			return nil, err
		}
		return nil, apperror.NewUpstream("github repos for '"+username+"'", err)
	}
	return repos, nil
}

func (uc *ProfileUseCase) lookupError(err error, msg, key string) error {
	if errors.Is(err, profile.ErrProfileNotFound) {
		return apperror.NewNotFound(msg, "no profile for user '"+key+"'")
	}
	return err
}

func (uc *ProfileUseCase) publish(ctx context.Context, t profile.EventType, p *profile.Profile) {
	uc.publishEvent(ctx, profile.Event{
		Type:           t,
		UserID:         p.UserID,
		GitHubUsername: p.GitHubUsername,
		OccurredAt:     uc.now(),
	})
}

// publishEvent never fails the caller; the event stream is best effort.
func (uc *ProfileUseCase) publishEvent(ctx context.Context, e profile.Event) {
	if err := uc.events.PublishProfileEvent(ctx, e); err != nil {
		uc.logger.Warn("Failed to publish profile event",
			zap.String("event_type", string(e.Type)),
			zap.String("user_id", e.UserID.String()),
			zap.Error(err),
		)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
