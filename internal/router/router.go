package router

import (
	"log"
	"os"
	"time"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultFeedCacheTTL = 20 * time.Second

func feedCacheTTL() time.Duration {
	if raw := os.Getenv("FEED_CACHE_TTL"); raw != "" {
		if secs := utils.StringToInt(raw); secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultFeedCacheTTL
}

func RegisterRoutes(r *gin.Engine) {
	cache, err := utils.NewCache(500)
	if err != nil {
		log.Fatalf("Failed to create feed cache: %v", err)
	}

	aboutHandler := handlers.NewAboutHandler()
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler(cache, feedCacheTTL())
	userHandler := handlers.NewUserHandler()

	// Public routes
	r.GET("/", postHandler.Index)
	r.GET("/group/:slug/", postHandler.GroupPosts)

	r.GET("/about/author/", aboutHandler.Author)
	r.GET("/about/tech/", aboutHandler.Tech)

	r.GET("/auth/signup/", authHandler.ShowSignup)
	r.POST("/auth/signup/", authHandler.Signup)
	r.GET("/auth/login/", authHandler.ShowLogin)
	r.POST("/auth/login/", authHandler.Login)
	r.GET("/auth/logout/", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/new/", postHandler.ShowCreate)
		authorized.POST("/new/", postHandler.Create)
		authorized.GET("/follow/", postHandler.FollowIndex)

		authorized.GET("/:username/follow/", userHandler.Follow)
		authorized.GET("/:username/unfollow/", userHandler.Unfollow)
		authorized.GET("/:username/:post_id/edit/", postHandler.ShowEdit)
		authorized.POST("/:username/:post_id/edit/", postHandler.Update)
		authorized.POST("/:username/:post_id/comment/", postHandler.AddComment)
	}

	// Profile and detail pages come last; static segments above win over the
	// :username parameter.
	r.GET("/:username/", userHandler.Profile)
	r.GET("/:username/:post_id/", postHandler.Detail)

	r.NoRoute(handlers.NotFound)
}
