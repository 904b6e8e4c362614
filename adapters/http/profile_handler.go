package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	MsgUserDeleted      = "User has been Deleted Succesfully"
	MsgNoGithubProfile  = "No Github Profile Found"
	githubReposMimeType = "application/json; charset=utf-8"
	feedMimeRSS         = "application/rss+xml; charset=utf-8"
	feedMimeAtom        = "application/atom+xml; charset=utf-8"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	p, err := h.profileUseCase.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUseCase.ListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(profiles))
}

// GetByUserID answers a miss with a bare {msg} body, unlike /me.
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	p, err := h.profileUseCase.GetProfileByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		var appErr *apperror.AppError
		if errors.Is(err, apperror.ErrNotFound) && errors.As(err, &appErr) {
			c.JSON(http.StatusBadRequest, MessageResponse{Msg: appErr.Message})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile", err))
		return
	}

	p, err := h.profileUseCase.UpsertProfile(c.Request.Context(), userID, req.ToFields())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	if err := h.profileUseCase.DeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	h.logger.Info("Account deleted", zap.String("user_id", userID.String()))
	c.JSON(http.StatusOK, MessageResponse{Msg: MsgUserDeleted})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	var req profileUC.ExperienceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for experience", err))
		return
	}

	p, err := h.profileUseCase.AddExperience(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	p, err := h.profileUseCase.RemoveExperience(c.Request.Context(), userID, c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	var req profileUC.EducationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education", err))
		return
	}

	p, err := h.profileUseCase.AddEducation(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized(MsgNoToken, nil))
		return
	}

	p, err := h.profileUseCase.RemoveEducation(c.Request.Context(), userID, c.Param("edu_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// GithubRepos relays the upstream JSON array byte for byte. Every upstream
// failure answers 404 with a JSON string body.
func (h *ProfileHandler) GithubRepos(c *gin.Context) {
	repos, err := h.profileUseCase.FetchGithubRepos(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, apperror.ErrUpstream) {
			c.JSON(http.StatusNotFound, MsgNoGithubProfile)
			return
		}
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, githubReposMimeType, repos)
}

// Feed serves the newest profiles as RSS, or Atom with ?format=atom.
func (h *ProfileHandler) Feed(c *gin.Context) {
	feed, err := h.profileUseCase.ProfileFeed(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	var body string
	mime := feedMimeRSS
	if c.Query("format") == "atom" {
		mime = feedMimeAtom
		body, err = feed.ToAtom()
	} else {
		body, err = feed.ToRss()
	}
	if err != nil {
		c.Error(apperror.NewInternal("failed to render profile feed", err))
		return
	}
	c.Data(http.StatusOK, mime, []byte(body))
}
