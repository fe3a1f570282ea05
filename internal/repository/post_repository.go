package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/postpilot/postpilot/internal/models"
)

type PostRepository interface {
	CreateBatch(ctx context.Context, posts []*models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	CheckByUserID(ctx context.Context, postID string, userID int64) (bool, error)
	UpdatePartial(ctx context.Context, id string, patch *models.PostPatch) error
	SetImageURL(ctx context.Context, id, imageURL string) error
	SetSchedule(ctx context.Context, id string, postDate time.Time) error
	SetPublishOutcome(ctx context.Context, id, status string, postedAt time.Time, results []byte) error
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// CreateBatch inserts a generated calendar in one transaction; either all
// posts exist afterwards or none do.
func (r *postRepository) CreateBatch(ctx context.Context, posts []*models.Post) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO posts (id, user_id, day, idea, caption, hashtags, status, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
	`
	for _, post := range posts {
		_, err := tx.ExecContext(ctx, query, post.ID, post.UserID, post.Day, post.Idea,
			post.Caption, pq.Array(post.Hashtags), post.Status, post.ImageURL)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

const postColumns = `id, user_id, day, idea, caption, hashtags, status, COALESCE(image_url, ''), post_date, posted_at, post_results, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.UserID, &post.Day, &post.Idea, &post.Caption, &post.Hashtags,
		&post.Status, &post.ImageURL, &post.PostDate, &post.PostedAt, &post.PostResults,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID string, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) UpdatePartial(ctx context.Context, id string, patch *models.PostPatch) error {
	var hashtags interface{}
	if patch.Hashtags != nil {
		hashtags = pq.Array(patch.Hashtags)
	}

	query := `
		UPDATE posts
		SET idea = COALESCE($2, idea),
			caption = COALESCE($3, caption),
			hashtags = COALESCE($4, hashtags),
			status = COALESCE($5, status),
			image_url = COALESCE($6, image_url),
			post_date = COALESCE($7, post_date),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, patch.Idea, patch.Caption, hashtags,
		patch.Status, patch.ImageURL, patch.PostDate)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetImageURL(ctx context.Context, id, imageURL string) error {
	query := `UPDATE posts SET image_url = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, imageURL)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetSchedule(ctx context.Context, id string, postDate time.Time) error {
	query := `
		UPDATE posts
		SET status = $2,
			post_date = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, models.PostStatusScheduled, postDate)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetPublishOutcome(ctx context.Context, id, status string, postedAt time.Time, results []byte) error {
	query := `
		UPDATE posts
		SET status = $2,
			posted_at = $3,
			post_results = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, postedAt, results)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
