package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type RouterDeps struct {
	Profile *ProfileHandler
	Auth    *AuthHandler
	JWT     *auth.JWTService
	Logger  logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware(d.Logger))
	router.Use(RequestLogger(d.Logger))
	router.Use(ErrorMiddleware(d.Logger))

	authMiddleware := AuthMiddleware(d.JWT, d.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})

		api.POST("/users", d.Auth.Register)
		api.POST("/auth", d.Auth.Login)
		api.GET("/auth", authMiddleware, d.Auth.CurrentUser)

		profiles := api.Group("/profile")
		{
			profiles.GET("", d.Profile.List)
			profiles.GET("/feed", d.Profile.Feed)
			profiles.GET("/user/:user_id", d.Profile.GetByUserID)
			profiles.GET("/github/:username", d.Profile.GithubRepos)

			private := profiles.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", d.Profile.GetMe)
				private.POST("", d.Profile.Upsert)
				private.DELETE("", d.Profile.DeleteAccount)
				private.PUT("/experience", d.Profile.AddExperience)
				private.DELETE("/experience/:exp_id", d.Profile.RemoveExperience)
				private.PUT("/education", d.Profile.AddEducation)
				private.DELETE("/education/:edu_id", d.Profile.RemoveEducation)
			}
		}
	}

	return router
}
