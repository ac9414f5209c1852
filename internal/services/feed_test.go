package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})
	gdb, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gdb, mock
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		perPage int
		want    int
	}{
		{"empty collection still has one page", 0, 10, 1},
		{"exact fit", 20, 10, 2},
		{"remainder adds a page", 12, 10, 2},
		{"single item", 1, 10, 1},
		{"one over a boundary", 21, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, totalPages(tt.total, tt.perPage))
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"first page", 1, 3, 1},
		{"middle page", 2, 3, 2},
		{"beyond the end clamps to last", 99, 3, 3},
		{"zero means first", 0, 3, 1},
		{"negative means first", -5, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampPage(tt.page, tt.totalPages))
		})
	}
}

func TestGlobalFeedSecondPage(t *testing.T) {
	gdb, mock := newMockGorm(t)
	now := time.Now()

	// 12 posts total: page 2 holds the remaining 2.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	postRows := sqlmock.NewRows([]string{"id", "text", "image", "author_id", "group_id", "pub_date", "updated_at"}).
		AddRow(2, "post two", "", 1, nil, now.Add(-11*time.Hour), now).
		AddRow(1, "post one", "", 1, nil, now.Add(-12*time.Hour), now)
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postRows)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "leo"))

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) as count FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).AddRow(2, 3))

	page, err := GlobalFeed(gdb, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(12), page.Total)
	assert.Len(t, page.Posts, 2)
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())
	assert.Equal(t, "post two", page.Posts[0].Text)
	assert.Equal(t, 3, page.Posts[0].CommentCount)
	assert.Equal(t, 0, page.Posts[1].CommentCount)
	assert.Equal(t, "leo", page.Posts[0].Author.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalFeedClampsPastTheEnd(t *testing.T) {
	gdb, mock := newMockGorm(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	postRows := sqlmock.NewRows([]string{"id", "text", "image", "author_id", "group_id", "pub_date", "updated_at"}).
		AddRow(3, "newest", "", 1, nil, now, now).
		AddRow(2, "middle", "", 1, nil, now.Add(-time.Hour), now).
		AddRow(1, "oldest", "", 1, nil, now.Add(-2*time.Hour), now)
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postRows)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "leo"))

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) as count FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}))

	// Requesting page 42 of a 1-page collection serves page 1, never errors.
	page, err := GlobalFeed(gdb, 42)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Posts, 3)
	assert.False(t, page.HasPrev())
	assert.False(t, page.HasNext())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalFeedEmpty(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "image", "author_id", "group_id", "pub_date", "updated_at"}))

	page, err := GlobalFeed(gdb, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Posts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupFeedFilters(t *testing.T) {
	gdb, mock := newMockGorm(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE group_id`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	postRows := sqlmock.NewRows([]string{"id", "text", "image", "author_id", "group_id", "pub_date", "updated_at"}).
		AddRow(1, "grouped post", "", 1, 7, now, now)
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE group_id`).WillReturnRows(postRows)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "leo"))
	mock.ExpectQuery(`SELECT \* FROM "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).AddRow(7, "Tech", "tech"))

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) as count FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}))

	page, err := GroupFeed(gdb, 7, 1)
	assert.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.Equal(t, "grouped post", page.Posts[0].Text)
	assert.NotNil(t, page.Posts[0].Group)
	assert.Equal(t, "tech", page.Posts[0].Group.Slug)

	assert.NoError(t, mock.ExpectationsWereMet())
}
