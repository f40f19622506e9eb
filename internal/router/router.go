package router

import (
	"gather/internal/handlers"
	"gather/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	voteHandler := handlers.NewVoteHandler()
	communityHandler := handlers.NewCommunityHandler()
	topicHandler := handlers.NewTopicHandler()
	userHandler := handlers.NewUserHandler()
	imageHandler := handlers.NewImageHandler()

	// Public Routes
	r.GET("/api/feed", postHandler.Feed)
	r.GET("/api/posts/:id", postHandler.Detail)
	r.GET("/api/communities/:name", communityHandler.Detail)
	r.GET("/api/topics", topicHandler.List)
	r.GET("/api/users/:username", userHandler.Profile)
	r.GET("/api/users/:username/posts", postHandler.UserPosts)
	r.GET("/api/users/:username/comments", postHandler.UserComments)

	r.POST("/api/register", authHandler.Register)
	r.POST("/api/login", authHandler.Login)
	r.POST("/api/logout", authHandler.Logout)
	r.GET("/api/me", authHandler.Me)
	r.POST("/api/forgot-password", authHandler.ForgotPassword)
	r.POST("/api/change-password", authHandler.ChangePassword)

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.CreateTextPost)
		authorized.POST("/posts/image", postHandler.CreateImagePost)
		authorized.POST("/comments", postHandler.CreateComment)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.PUT("/posts/:id/status", postHandler.UpdateStatus)

		authorized.POST("/vote", voteHandler.Vote)
		authorized.GET("/vote/:postId", voteHandler.Status)

		authorized.POST("/communities", communityHandler.Create)
		authorized.GET("/communities", communityHandler.Mine)
		authorized.POST("/communities/:id/join", communityHandler.Join)
		authorized.POST("/communities/:id/leave", communityHandler.Leave)
		authorized.PUT("/communities/:id/description", communityHandler.EditDescription)
		authorized.PUT("/communities/:id/appearance", communityHandler.SetAppearance)

		authorized.POST("/topics", topicHandler.Create)

		authorized.PUT("/me/avatar", userHandler.SetAvatar)
		authorized.PUT("/me/about", userHandler.SetAbout)

		authorized.POST("/images", imageHandler.Upload)
	}
}
