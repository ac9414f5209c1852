package handlers

import (
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// isFollowing reports whether user already follows author.
func isFollowing(userID, authorID uint) bool {
	var follow models.Follow
	err := db.DB.Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&follow).Error
	return err == nil
}

// findAuthor resolves the :username segment.
func findAuthor(c *gin.Context) (*models.User, bool) {
	username := c.Param("username")
	var author models.User
	if err := db.DB.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, false
	}
	return &author, true
}

// Profile shows an author's paginated posts plus follow state.
func (h *UserHandler) Profile(c *gin.Context) {
	author, ok := findAuthor(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "No such user: "+c.Param("username"))
		return
	}

	feed, err := services.AuthorFeed(db.DB, author.ID, parsePage(c))
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed.")
		return
	}

	following := false
	isSelf := false
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		cu := u.(*models.User)
		isSelf = cu.ID == author.ID
		if !isSelf {
			following = isFollowing(cu.ID, author.ID)
		}
	}

	var followerCount int64
	db.DB.Model(&models.Follow{}).Where("author_id = ?", author.ID).Count(&followerCount)

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":         author.Username,
		"Author":        author,
		"Feed":          feed,
		"Following":     following,
		"IsSelf":        isSelf,
		"FollowerCount": followerCount,
		"DaysSince":     utils.DaysSinceJoined(author.CreatedAt),
	})
}

// Follow subscribes the current user to an author. Get-or-create keeps it
// idempotent; following yourself is a no-op.
func (h *UserHandler) Follow(c *gin.Context) {
	user := currentUser(c)

	author, ok := findAuthor(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "No such user: "+c.Param("username"))
		return
	}

	if author.ID != user.ID {
		follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
		db.DB.Where(models.Follow{UserID: user.ID, AuthorID: author.ID}).
			FirstOrCreate(&follow)
	}

	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// Unfollow removes the subscription if it exists; a missing row is a no-op.
func (h *UserHandler) Unfollow(c *gin.Context) {
	user := currentUser(c)

	author, ok := findAuthor(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "No such user: "+c.Param("username"))
		return
	}

	db.DB.Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{})

	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}
