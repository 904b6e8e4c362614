package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// Profile DTOs keep the field names the web client already consumes.

type OwnerDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

type SocialDTO struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type ExperienceDTO struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type ProfileDTO struct {
	ID             uuid.UUID       `json:"_id"`
	User           OwnerDTO        `json:"user"`
	Company        string          `json:"company,omitempty"`
	Website        string          `json:"website,omitempty"`
	Location       string          `json:"location,omitempty"`
	Status         string          `json:"status"`
	Skills         []string        `json:"skills"`
	Bio            string          `json:"bio,omitempty"`
	GitHubUsername string          `json:"githubusername,omitempty"`
	Social         SocialDTO       `json:"social"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Date           time.Time       `json:"date"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:             p.ID,
		User:           OwnerDTO{ID: p.UserID},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Social:         SocialDTO(p.Social),
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Date:           p.Date,
	}
	if p.Owner != nil {
		dto.User = OwnerDTO{ID: p.Owner.ID, Name: p.Owner.Name, Avatar: p.Owner.Avatar}
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO{
			ID: e.ID, Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO{
			ID: e.ID, School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return dto
}

func ToProfileDTOs(profiles []*profile.Profile) []ProfileDTO {
	out := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		out[i] = ToProfileDTO(p)
	}
	return out
}

// ProfileRequest is the create-or-update form. Social links arrive flat.
// A key missing from the JSON body decodes to nil and is left untouched.
type ProfileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GitHubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Instagram      *string `json:"instagram"`
	LinkedIn       *string `json:"linkedin"`
}

func (r ProfileRequest) ToFields() profile.Fields {
	return profile.Fields{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		Social: profile.SocialFields{
			YouTube:   r.YouTube,
			Twitter:   r.Twitter,
			Facebook:  r.Facebook,
			Instagram: r.Instagram,
			LinkedIn:  r.LinkedIn,
		},
	}
}

// User DTOs

type UserDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Date: u.Date}
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}
