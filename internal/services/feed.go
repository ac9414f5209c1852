package services

import (
	"math"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostsPerPage is the fixed page size for every feed context.
const PostsPerPage = 10

// Page is one slice of a feed plus its pagination metadata.
type Page struct {
	Posts      []models.Post
	Number     int
	TotalPages int
	Total      int64
}

func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p *Page) HasPrev() bool {
	return p.Number > 1
}

// GlobalFeed returns one page of all posts, newest first.
func GlobalFeed(dbc *gorm.DB, page int) (*Page, error) {
	return paginate(func() *gorm.DB {
		return dbc.Model(&models.Post{})
	}, page)
}

// GroupFeed returns one page of a single group's posts.
func GroupFeed(dbc *gorm.DB, groupID uint, page int) (*Page, error) {
	return paginate(func() *gorm.DB {
		return dbc.Model(&models.Post{}).Where("group_id = ?", groupID)
	}, page)
}

// AuthorFeed returns one page of a single author's posts.
func AuthorFeed(dbc *gorm.DB, authorID uint, page int) (*Page, error) {
	return paginate(func() *gorm.DB {
		return dbc.Model(&models.Post{}).Where("author_id = ?", authorID)
	}, page)
}

// FollowFeed returns one page of posts written by the authors the given user
// follows.
func FollowFeed(dbc *gorm.DB, userID uint, page int) (*Page, error) {
	return paginate(func() *gorm.DB {
		followed := dbc.Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", userID)
		return dbc.Model(&models.Post{}).Where("author_id IN (?)", followed)
	}, page)
}

// paginate runs the count and the page query against fresh builder output so
// neither statement leaks clauses into the other. A page past the end clamps
// to the last page; anything below 1 means page 1.
func paginate(base func() *gorm.DB, page int) (*Page, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	tp := totalPages(total, PostsPerPage)
	page = clampPage(page, tp)

	var posts []models.Post
	err := base().
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Limit(PostsPerPage).
		Offset((page - 1) * PostsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	fillCommentCounts(dbOf(base()), posts)

	return &Page{
		Posts:      posts,
		Number:     page,
		TotalPages: tp,
		Total:      total,
	}, nil
}

// dbOf strips the statement a builder accumulated, leaving a clean session.
func dbOf(q *gorm.DB) *gorm.DB {
	return q.Session(&gorm.Session{NewDB: true})
}

func totalPages(total int64, perPage int) int {
	tp := int(math.Ceil(float64(total) / float64(perPage)))
	if tp == 0 {
		tp = 1
	}
	return tp
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// fillCommentCounts batch-fills the transient CommentCount of the listed
// posts with a single grouped query.
func fillCommentCounts(dbc *gorm.DB, posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	dbc.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}
