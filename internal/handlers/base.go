package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like the current user
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the shared error page with the given status.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Status": code})
}

// NotFound handles unmatched routes, echoing the requested path.
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "error.html", gin.H{
		"Error":  "Page not found",
		"Status": http.StatusNotFound,
		"Path":   c.Request.URL.Path,
	})
}

// ServerError is the recovery hook for panics anywhere below the router.
func ServerError(c *gin.Context, _ interface{}) {
	Render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Error":  "Something went wrong on our side",
		"Status": http.StatusInternalServerError,
	})
}

// currentUser pulls the loaded user out of the context. Only call it behind
// AuthRequired.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}
