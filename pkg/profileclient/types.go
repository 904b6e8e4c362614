package profileclient

import (
	"encoding/json"
	"time"
)

type ActionType string

const (
	GetProfile     ActionType = "GET_PROFILE"
	GetProfiles    ActionType = "GET_PROFILES"
	ProfileError   ActionType = "PROFILE_ERROR"
	UpdateProfile  ActionType = "UPDATE_PROFILE"
	AccountDeleted ActionType = "ACCOUNT_DELETED"
	ClearProfile   ActionType = "CLEAR_PROFILE"
	GetRepos       ActionType = "GET_REPOS"
	NoRepos        ActionType = "NO_REPOS"
	SetAlert       ActionType = "SET_ALERT"
)

const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
)

// Action is what the client hands to its Dispatch function.
type Action struct {
	Type    ActionType
	Payload any
}

type Alert struct {
	Msg       string
	AlertType string
}

type ErrorPayload struct {
	Msg    string
	Status int
}

type Owner struct {
	ID     string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type Experience struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type Profile struct {
	ID             string       `json:"_id"`
	User           Owner        `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Date           time.Time    `json:"date"`
}

// Repos is the GitHub listing relayed verbatim by the API.
type Repos = json.RawMessage

// ProfileForm fields left nil are not sent, so the server keeps their values.
type ProfileForm struct {
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Status         *string `json:"status,omitempty"`
	GitHubUsername *string `json:"githubusername,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	YouTube        *string `json:"youtube,omitempty"`
	Twitter        *string `json:"twitter,omitempty"`
	Facebook       *string `json:"facebook,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
	LinkedIn       *string `json:"linkedin,omitempty"`
}

type ExperienceForm struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type EducationForm struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}
