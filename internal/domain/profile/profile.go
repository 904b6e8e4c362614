package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// Owner is the public part of the user a profile belongs to.
type Owner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

type Profile struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Owner          *Owner       `json:"owner,omitempty"`
	Company        string       `json:"company"`
	Website        string       `json:"website"`
	Location       string       `json:"location"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio"`
	GitHubUsername string       `json:"github_username"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Date           time.Time    `json:"date"`
}

// SocialFields holds the social links of an update. A nil field is absent.
type SocialFields struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	Instagram *string
	LinkedIn  *string
}

// Fields is a partial profile update. A nil field is absent and leaves the
// stored value untouched; a non-nil empty string clears it.
type Fields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         *string
	Social         SocialFields
}

// New builds an empty profile owned by userID.
func New(userID uuid.UUID, now time.Time) *Profile {
	return &Profile{
		ID:         uuid.New(),
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		Date:       now,
	}
}

// SplitSkills splits a comma separated list and trims every element.
// Empty segments are kept.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Apply merges the present fields of f into p.
func (p *Profile) Apply(f Fields) {
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != nil {
		p.Skills = SplitSkills(*f.Skills)
	}

	set(&p.Social.YouTube, f.Social.YouTube)
	set(&p.Social.Twitter, f.Social.Twitter)
	set(&p.Social.Facebook, f.Social.Facebook)
	set(&p.Social.Instagram, f.Social.Instagram)
	set(&p.Social.LinkedIn, f.Social.LinkedIn)
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// AddExperience assigns a fresh id to e and puts it first.
func (p *Profile) AddExperience(e Experience) Experience {
	e.ID = uuid.New()
	p.Experience = append([]Experience{e}, p.Experience...)
	return e
}

// RemoveExperience drops the entry with the given id. It reports whether one was found.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// AddEducation assigns a fresh id to e and puts it first.
func (p *Profile) AddEducation(e Education) Education {
	e.ID = uuid.New()
	p.Education = append([]Education{e}, p.Education...)
	return e
}

// RemoveEducation drops the entry with the given id. It reports whether one was found.
func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

type Repository interface {
	// FindByUserID returns ErrProfileNotFound when the user has no profile.
	// The result has Owner populated.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Save inserts or replaces the profile of p.UserID. Owner is ignored.
	Save(ctx context.Context, p *Profile) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
