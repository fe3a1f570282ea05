package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/postpilot/postpilot/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error)
	SetMetaCredentials(ctx context.Context, userID int64, creds *models.MetaCredentials) error
	SetMetaToken(ctx context.Context, userID int64, accessToken string, expiresAt time.Time) error
	ListExpiringMeta(ctx context.Context, initialTime, finalTime time.Time) ([]*models.User, error)
	Remove(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	var user models.User
	query := `
		SELECT id, google_id, email, name, profile_picture,
			COALESCE(meta_access_token, ''),
			COALESCE(page_id, ''),
			COALESCE(page_name, ''),
			COALESCE(instagram_business_id, '')
		FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name,
		&user.ProfilePicture, &user.MetaAccessToken, &user.PageID, &user.PageName, &user.InstagramBusinessID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, google_id, email, name FROM users WHERE email = $1"
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	query := "INSERT INTO users (google_id, email, name, profile_picture) VALUES ($1, $2, $3, $4) RETURNING id"

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.ProfilePicture).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.ProfilePicture).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// SetMetaCredentials writes the whole credential set in one statement so the
// access token and page id stay consistent with each other.
func (r *userRepository) SetMetaCredentials(ctx context.Context, userID int64, creds *models.MetaCredentials) error {
	query := `
		UPDATE users
		SET meta_access_token = $2,
			page_id = $3,
			page_name = $4,
			instagram_business_id = NULLIF($5, ''),
			meta_token_expires_at = $6,
			meta_connected_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, creds.AccessToken, creds.PageID, creds.PageName,
		creds.InstagramBusinessID, creds.TokenExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no rows affected; user may not exist")
		return errors.New("no rows affected; user may not exist")
	}
	return nil
}

func (r *userRepository) SetMetaToken(ctx context.Context, userID int64, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET meta_access_token = $2,
			meta_token_expires_at = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, accessToken, expiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) ListExpiringMeta(ctx context.Context, initialTime, finalTime time.Time) ([]*models.User, error) {
	query := `
		SELECT id, COALESCE(meta_access_token, ''), meta_token_expires_at
		FROM users
		WHERE meta_access_token IS NOT NULL
		AND (meta_token_expires_at BETWEEN $1 AND $2)`
	rows, err := r.db.QueryContext(ctx, query, initialTime, finalTime)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.MetaAccessToken, &user.MetaTokenExpiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
