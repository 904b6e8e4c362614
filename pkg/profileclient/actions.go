package profileclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DashboardPath = "/dashboard"

	MsgProfileUpdated    = "Profile Updated"
	MsgProfileCreated    = "Profile Created"
	MsgExperienceAdded   = "Experience Added"
	MsgEducationAdded    = "Education Added"
	MsgExperienceRemoved = "Experience Removed"
	MsgEducationRemoved  = "Education Removed"
	MsgAccountDeleted    = "Your Account has been permanently deleted"
	MsgConfirmDelete     = "Are you sure this cannot be undone ?"
)

// Actions calls the profile API and reports every outcome through Dispatch.
// Navigate and Confirm are optional.
type Actions struct {
	baseURL  string
	http     *http.Client
	token    string
	Dispatch func(Action)
	Navigate func(path string)
	Confirm  func(msg string) bool
}

type Option func(*Actions)

func WithHTTPClient(c *http.Client) Option {
	return func(a *Actions) { a.http = c }
}

// WithToken sets the token sent as x-auth-token.
func WithToken(token string) Option {
	return func(a *Actions) { a.token = token }
}

func New(baseURL string, dispatch func(Action), opts ...Option) *Actions {
	a := &Actions{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		Dispatch: dispatch,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actions) SetToken(token string) { a.token = token }

// responseError is a non-2xx answer from the API.
type responseError struct {
	status int
	body   []byte
}

func (e *responseError) Error() string {
	return fmt.Sprintf("profile api: %d %s", e.status, http.StatusText(e.status))
}

// messages extracts errors[].msg from the body, if it has that shape.
func (e *responseError) messages() []string {
	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if json.Unmarshal(e.body, &body) != nil {
		return nil
	}
	msgs := make([]string, 0, len(body.Errors))
	for _, item := range body.Errors {
		msgs = append(msgs, item.Msg)
	}
	return msgs
}

func (a *Actions) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("x-auth-token", a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &responseError{status: resp.StatusCode, body: raw}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (a *Actions) dispatch(t ActionType, payload any) {
	if a.Dispatch != nil {
		a.Dispatch(Action{Type: t, Payload: payload})
	}
}

func (a *Actions) alert(msg, alertType string) {
	a.dispatch(SetAlert, Alert{Msg: msg, AlertType: alertType})
}

func (a *Actions) navigate(path string) {
	if a.Navigate != nil {
		a.Navigate(path)
	}
}

// fail reports err as PROFILE_ERROR. Transport errors have status 0.
func (a *Actions) fail(err error, alertMessages bool) {
	payload := ErrorPayload{Msg: err.Error()}
	var re *responseError
	if errors.As(err, &re) {
		payload = ErrorPayload{Msg: http.StatusText(re.status), Status: re.status}
		if alertMessages {
			for _, msg := range re.messages() {
				a.alert(msg, AlertDanger)
			}
		}
	}
	a.dispatch(ProfileError, payload)
}

func (a *Actions) GetCurrentProfile(ctx context.Context) error {
	var p Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile/me", nil, &p); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(GetProfile, p)
	return nil
}

func (a *Actions) GetProfiles(ctx context.Context) error {
	a.dispatch(ClearProfile, nil)
	var profiles []Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile", nil, &profiles); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(GetProfiles, profiles)
	return nil
}

func (a *Actions) GetProfileByID(ctx context.Context, userID string) error {
	var p Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile/user/"+url.PathEscape(userID), nil, &p); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(GetProfile, p)
	return nil
}

// GetGithubRepos dispatches NO_REPOS on any failure.
func (a *Actions) GetGithubRepos(ctx context.Context, username string) error {
	var repos Repos
	if err := a.do(ctx, http.MethodGet, "/api/profile/github/"+url.PathEscape(username), nil, &repos); err != nil {
		a.dispatch(NoRepos, nil)
		return err
	}
	a.dispatch(GetRepos, repos)
	return nil
}

func (a *Actions) CreateProfile(ctx context.Context, form ProfileForm, edit bool) error {
	var p Profile
	if err := a.do(ctx, http.MethodPost, "/api/profile", form, &p); err != nil {
		a.fail(err, true)
		return err
	}
	a.dispatch(GetProfile, p)
	if edit {
		a.alert(MsgProfileUpdated, AlertSuccess)
	} else {
		a.alert(MsgProfileCreated, AlertSuccess)
	}
	a.navigate(DashboardPath)
	return nil
}

func (a *Actions) AddExperience(ctx context.Context, form ExperienceForm) error {
	var p Profile
	if err := a.do(ctx, http.MethodPut, "/api/profile/experience", form, &p); err != nil {
		a.fail(err, true)
		return err
	}
	a.dispatch(UpdateProfile, p)
	a.alert(MsgExperienceAdded, AlertSuccess)
	a.navigate(DashboardPath)
	return nil
}

func (a *Actions) AddEducation(ctx context.Context, form EducationForm) error {
	var p Profile
	if err := a.do(ctx, http.MethodPut, "/api/profile/education", form, &p); err != nil {
		a.fail(err, true)
		return err
	}
	a.dispatch(UpdateProfile, p)
	a.alert(MsgEducationAdded, AlertSuccess)
	a.navigate(DashboardPath)
	return nil
}

func (a *Actions) DeleteExperience(ctx context.Context, id string) error {
	var p Profile
	if err := a.do(ctx, http.MethodDelete, "/api/profile/experience/"+url.PathEscape(id), nil, &p); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(UpdateProfile, p)
	a.alert(MsgExperienceRemoved, AlertSuccess)
	return nil
}

func (a *Actions) DeleteEducation(ctx context.Context, id string) error {
	var p Profile
	if err := a.do(ctx, http.MethodDelete, "/api/profile/education/"+url.PathEscape(id), nil, &p); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(UpdateProfile, p)
	a.alert(MsgEducationRemoved, AlertSuccess)
	return nil
}

// DeleteAccount does nothing when Confirm is set and declines.
func (a *Actions) DeleteAccount(ctx context.Context) error {
	if a.Confirm != nil && !a.Confirm(MsgConfirmDelete) {
		return nil
	}
	if err := a.do(ctx, http.MethodDelete, "/api/profile", nil, nil); err != nil {
		a.fail(err, false)
		return err
	}
	a.dispatch(ClearProfile, nil)
	a.dispatch(AccountDeleted, nil)
	a.alert(MsgAccountDeleted, AlertSuccess)
	return nil
}
