package forms

import (
	"errors"
	"mime/multipart"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Errors maps a field name to its validation message. Empty means valid.
type Errors map[string]string

// PostForm is the fixed schema of the post authoring form: required text, an
// optional group choice and an optional image upload. Validation is eager;
// binding onto a Post never persists, so the caller stamps the author before
// saving.
type PostForm struct {
	Text    string
	GroupID *uint
	Image   *multipart.FileHeader
}

// BindPostForm reads the submitted fields off the request. The image file
// header is carried along unvalidated; the media service decides whether the
// bytes are acceptable at save time.
func BindPostForm(c *gin.Context) *PostForm {
	f := &PostForm{
		Text: strings.TrimSpace(c.PostForm("text")),
	}

	if raw := c.PostForm("group"); raw != "" {
		if id := utils.StringToUint(raw); id > 0 {
			f.GroupID = &id
		}
	}

	if header, err := c.FormFile("image"); err == nil {
		f.Image = header
	}

	return f
}

// Validate checks the declared rules and returns field-level errors.
func (f *PostForm) Validate() Errors {
	errs := Errors{}

	if f.Text == "" {
		errs["text"] = "Text is required."
	}

	if f.GroupID != nil {
		var group models.Group
		if err := db.DB.First(&group, *f.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs["group"] = "Select a valid group."
			} else {
				errs["group"] = "Group could not be verified."
			}
		}
	}

	return errs
}

// SelectedGroup returns the chosen group id, zero when none. Used by the
// form template to mark the active option.
func (f *PostForm) SelectedGroup() uint {
	if f.GroupID == nil {
		return 0
	}
	return *f.GroupID
}

// Apply copies the bound fields onto a new or existing post. The publication
// date, the author and the stored image path stay untouched here.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.GroupID = f.GroupID
}

// CommentForm is the single-field comment schema.
type CommentForm struct {
	Text string
}

func BindCommentForm(c *gin.Context) *CommentForm {
	return &CommentForm{
		Text: strings.TrimSpace(c.PostForm("text")),
	}
}

func (f *CommentForm) Validate() Errors {
	errs := Errors{}
	if f.Text == "" {
		errs["text"] = "Text is required."
	}
	return errs
}

func (f *CommentForm) Apply(comment *models.Comment) {
	comment.Text = f.Text
}
