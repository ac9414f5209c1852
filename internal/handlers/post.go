package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/forms"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	cache    *utils.Cache
	cacheTTL time.Duration
}

// NewPostHandler wires the feed cache in. Only the home feed is cached; the
// TTL bounds how stale it may get, no write path invalidates it.
func NewPostHandler(cache *utils.Cache, cacheTTL time.Duration) *PostHandler {
	return &PostHandler{
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func parsePage(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// groupList fetches all groups for the form select and the sidebar.
func groupList() []models.Group {
	var groups []models.Group
	db.DB.Order("id ASC").Find(&groups)
	return groups
}

// Index renders the global feed. The rendered context is cached per page
// number for the configured TTL, so a fresh post may take up to that long to
// show up here.
func (h *PostHandler) Index(c *gin.Context) {
	page := parsePage(c)

	cacheKey := fmt.Sprintf("feed:home:page:%d", page)
	if cached := h.cache.Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "feed/index.html", copyH(hData))
			return
		}
	}

	feed, err := services.GlobalFeed(db.DB, page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed.")
		return
	}

	renderData := gin.H{
		"Title":  "Latest posts",
		"Feed":   feed,
		"Groups": groupList(),
	}
	h.cache.Set(cacheKey, renderData, h.cacheTTL)

	Render(c, http.StatusOK, "feed/index.html", copyH(renderData))
}

// copyH keeps per-request keys like CurrentUser out of the cached map.
func copyH(src gin.H) gin.H {
	dst := make(gin.H, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// GroupPosts renders one group's feed. Not cached.
func (h *PostHandler) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")

	var group models.Group
	if err := db.DB.Where("slug = ?", slug).First(&group).Error; err != nil {
		RenderError(c, http.StatusNotFound, "No such group: "+slug)
		return
	}

	feed, err := services.GroupFeed(db.DB, group.ID, parsePage(c))
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed.")
		return
	}

	Render(c, http.StatusOK, "feed/group.html", gin.H{
		"Title":  group.Title,
		"Group":  group,
		"Feed":   feed,
		"Groups": groupList(),
	})
}

// FollowIndex renders the personalized feed of followed authors.
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := currentUser(c)

	feed, err := services.FollowFeed(db.DB, user.ID, parsePage(c))
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load the feed.")
		return
	}

	Render(c, http.StatusOK, "feed/follow.html", gin.H{
		"Title": "Following",
		"Feed":  feed,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":    "New post",
		"Groups":   groupList(),
		"EditMode": false,
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)

	form := forms.BindPostForm(c)
	errs := form.Validate()

	imagePath := ""
	if len(errs) == 0 && form.Image != nil {
		imagePath = saveFormImage(form, errs)
	}

	if len(errs) > 0 {
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":    "New post",
			"Groups":   groupList(),
			"EditMode": false,
			"Errors":   errs,
			"Form":     form,
		})
		return
	}

	post := models.Post{
		AuthorID: user.ID,
		Image:    imagePath,
	}
	form.Apply(&post)

	if err := db.DB.Create(&post).Error; err != nil {
		Render(c, http.StatusInternalServerError, "post/form.html", gin.H{
			"Title":    "New post",
			"Groups":   groupList(),
			"EditMode": false,
			"Errors":   forms.Errors{"text": "Could not save the post."},
			"Form":     form,
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// saveFormImage stores the upload and returns its media path, recording a
// field error instead when the bytes are not an acceptable image.
func saveFormImage(form *forms.PostForm, errs forms.Errors) string {
	file, err := form.Image.Open()
	if err != nil {
		errs["image"] = "Could not read the upload."
		return ""
	}
	defer file.Close()

	path, err := services.SaveImage(file, form.Image)
	if err != nil {
		errs["image"] = "Upload a valid image file."
		return ""
	}
	return path
}

// findPost resolves the (username, post id) pair from the URL. A post whose
// author does not match the username segment is treated as missing.
func findPost(c *gin.Context) (*models.Post, bool) {
	username := c.Param("username")
	postID := utils.StringToUint(c.Param("post_id"))

	var post models.Post
	if postID == 0 {
		return nil, false
	}
	if err := db.DB.Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		return nil, false
	}
	if post.Author.Username != username {
		return nil, false
	}
	return &post, true
}

func detailPath(post *models.Post) string {
	return fmt.Sprintf("/%s/%d/", post.Author.Username, post.ID)
}

type commentView struct {
	models.Comment
	TextHTML template.HTML
}

// renderDetail draws the post page, optionally with comment form errors so an
// invalid submission comes back on the same page.
func renderDetail(c *gin.Context, post *models.Post, code int, commentErrs forms.Errors, commentText string) {
	var comments []models.Comment
	db.DB.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&comments)

	views := make([]commentView, len(comments))
	for i, com := range comments {
		views[i] = commentView{
			Comment:  com,
			TextHTML: utils.RenderMarkdown(com.Text),
		}
	}

	following := false
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		cu := u.(*models.User)
		if cu.ID != post.AuthorID {
			following = isFollowing(cu.ID, post.AuthorID)
		}
	}

	Render(c, code, "post/detail.html", gin.H{
		"Title":         "Post by " + post.Author.Username,
		"Post":          post,
		"PostText":      utils.RenderMarkdown(post.Text),
		"Comments":      views,
		"Following":     following,
		"CommentErrors": commentErrs,
		"CommentText":   commentText,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := findPost(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	renderDetail(c, post, http.StatusOK, nil, "")
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := currentUser(c)

	post, ok := findPost(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// Not the author: send them to the read view instead of an error.
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, detailPath(post))
		return
	}

	Render(c, http.StatusOK, "post/form.html", gin.H{
		"Title":    "Edit post",
		"Groups":   groupList(),
		"EditMode": true,
		"Post":     post,
		"Form":     &forms.PostForm{Text: post.Text, GroupID: post.GroupID},
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := currentUser(c)

	post, ok := findPost(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, detailPath(post))
		return
	}

	form := forms.BindPostForm(c)
	errs := form.Validate()

	if len(errs) == 0 && form.Image != nil {
		if path := saveFormImage(form, errs); path != "" {
			post.Image = path
		}
	}

	if len(errs) > 0 {
		Render(c, http.StatusBadRequest, "post/form.html", gin.H{
			"Title":    "Edit post",
			"Groups":   groupList(),
			"EditMode": true,
			"Post":     post,
			"Errors":   errs,
			"Form":     form,
		})
		return
	}

	form.Apply(post)
	if err := db.DB.Save(post).Error; err != nil {
		Render(c, http.StatusInternalServerError, "post/form.html", gin.H{
			"Title":    "Edit post",
			"Groups":   groupList(),
			"EditMode": true,
			"Post":     post,
			"Errors":   forms.Errors{"text": "Could not save the post."},
			"Form":     form,
		})
		return
	}

	c.Redirect(http.StatusFound, detailPath(post))
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user := currentUser(c)

	post, ok := findPost(c)
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	form := forms.BindCommentForm(c)
	if errs := form.Validate(); len(errs) > 0 {
		renderDetail(c, post, http.StatusBadRequest, errs, form.Text)
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
	}
	form.Apply(&comment)

	if err := db.DB.Create(&comment).Error; err != nil {
		renderDetail(c, post, http.StatusInternalServerError,
			forms.Errors{"text": "Could not save the comment."}, form.Text)
		return
	}

	c.Redirect(http.StatusFound, detailPath(post))
}
