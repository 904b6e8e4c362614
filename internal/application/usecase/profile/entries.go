package profile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/validation"
)

// Dates arrive as RFC 3339 timestamps or plain calendar days.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = validation.Messages{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From Date is required",
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = validation.Messages{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field Of Study is required",
	"from":         "From Date is required",
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, userID uuid.UUID, in ExperienceInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddExperience")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	if err := validation.Struct(in, experienceMessages); err != nil {
		return nil, err
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}

	p, err := uc.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	e := p.AddExperience(profile.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	})
	span.SetAttributes(attribute.String("entry_id", e.ID.String()))

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.publish(ctx, profile.EventExperienceAdded, p)
	return p, nil
}

// RemoveExperience drops the entry with the given id. An id that matches no
// entry, malformed ones included, leaves the list unchanged.
func (uc *ProfileUseCase) RemoveExperience(ctx context.Context, userID uuid.UUID, rawEntryID string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveExperience")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()), attribute.String("entry_id", rawEntryID))

	p, err := uc.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	entryID, err := uuid.Parse(rawEntryID)
	if err != nil || !p.RemoveExperience(entryID) {
		span.SetAttributes(attribute.Bool("matched", false))
		return p, nil
	}

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.publish(ctx, profile.EventExperienceRemoved, p)
	return p, nil
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, userID uuid.UUID, in EducationInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddEducation")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	if err := validation.Struct(in, educationMessages); err != nil {
		return nil, err
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		return nil, err
	}

	p, err := uc.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	e := p.AddEducation(profile.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	})
	span.SetAttributes(attribute.String("entry_id", e.ID.String()))

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.publish(ctx, profile.EventEducationAdded, p)
	return p, nil
}

// RemoveEducation mirrors RemoveExperience for the education list.
func (uc *ProfileUseCase) RemoveEducation(ctx context.Context, userID uuid.UUID, rawEntryID string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveEducation")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()), attribute.String("entry_id", rawEntryID))

	p, err := uc.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	entryID, err := uuid.Parse(rawEntryID)
	if err != nil || !p.RemoveEducation(entryID) {
		span.SetAttributes(attribute.Bool("matched", false))
		return p, nil
	}

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.publish(ctx, profile.EventEducationRemoved, p)
	return p, nil
}

func parseRange(rawFrom, rawTo string) (time.Time, *time.Time, error) {
	from, ok := parseDate(rawFrom)
	if !ok {
		return time.Time{}, nil, apperror.NewValidation([]apperror.FieldError{
			{Msg: "From Date is invalid", Param: "from", Location: "body"},
		})
	}
	if strings.TrimSpace(rawTo) == "" {
		return from, nil, nil
	}
	to, ok := parseDate(rawTo)
	if !ok {
		return time.Time{}, nil, apperror.NewValidation([]apperror.FieldError{
			{Msg: "To Date is invalid", Param: "to", Location: "body"},
		})
	}
	return from, &to, nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
