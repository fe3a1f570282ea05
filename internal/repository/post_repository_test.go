package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/postpilot/postpilot/internal/models"
)

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "day", "idea", "caption", "hashtags", "status",
		"image_url", "post_date", "posted_at", "post_results", "created_at", "updated_at",
	})
}

func TestPostGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := postRows().AddRow(
		"post-1", int64(7), 3, "Tips and tricks", "Brew better at home.",
		"{#howto,#coffee}", models.PostStatusDraft, "", nil, nil, nil, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs("post-1").WillReturnRows(rows)

	r := NewPostRepository(db)
	post, err := r.GetByID(context.Background(), "post-1")
	require.NoError(t, err)
	require.NotNil(t, post)
	require.Equal(t, "post-1", post.ID)
	require.Equal(t, int64(7), post.UserID)
	require.Equal(t, 3, post.Day)
	require.Equal(t, []string{"#howto", "#coffee"}, []string(post.Hashtags))
	require.Nil(t, post.PostDate)
	require.Nil(t, post.PostedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs("missing").WillReturnRows(postRows())

	r := NewPostRepository(db)
	post, err := r.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, post)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCheckByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM posts")).
		WithArgs("post-1", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM posts")).
		WithArgs("post-1", int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	r := NewPostRepository(db)

	owned, err := r.CheckByUserID(context.Background(), "post-1", 7)
	require.NoError(t, err)
	require.True(t, owned)

	owned, err = r.CheckByUserID(context.Background(), "post-1", 8)
	require.NoError(t, err)
	require.False(t, owned)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCreateBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	posts := []*models.Post{
		{ID: "post-1", UserID: 7, Day: 1, Idea: "Behind the scenes", Caption: "Come see.",
			Hashtags: []string{"#coffee"}, Status: models.PostStatusDraft},
		{ID: "post-2", UserID: 7, Day: 2, Idea: "Customer spotlight", Caption: "Meet our regulars.",
			Hashtags: []string{}, Status: models.PostStatusDraft},
	}

	mock.ExpectBegin()
	for _, post := range posts {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
			WithArgs(post.ID, post.UserID, post.Day, post.Idea, post.Caption,
				sqlmock.AnyArg(), post.Status, post.ImageURL).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	r := NewPostRepository(db)
	require.NoError(t, r.CreateBatch(context.Background(), posts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCreateBatchRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	posts := []*models.Post{
		{ID: "post-1", UserID: 7, Day: 1, Status: models.PostStatusDraft},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	r := NewPostRepository(db)
	require.Error(t, r.CreateBatch(context.Background(), posts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostSetPublishOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	postedAt := time.Now()
	results := []byte(`{"facebook":{"success":true,"postId":"fb-1"}}`)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts")).
		WithArgs("post-1", models.PostStatusPosted, postedAt, results).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewPostRepository(db)
	require.NoError(t, r.SetPublishOutcome(context.Background(), "post-1", models.PostStatusPosted, postedAt, results))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostSetSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	postDate := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts")).
		WithArgs("post-1", models.PostStatusScheduled, postDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewPostRepository(db)
	require.NoError(t, r.SetSchedule(context.Background(), "post-1", postDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs("post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewPostRepository(db)
	require.NoError(t, r.Remove(context.Background(), "post-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
