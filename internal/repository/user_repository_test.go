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

func TestUserGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "google_id", "email", "name", "profile_picture",
		"meta_access_token", "page_id", "page_name", "instagram_business_id",
	}).AddRow(int64(7), "g-1", "owner@example.com", "Owner", "https://pic.example.com/1.jpg",
		"encrypted-token", "page-1", "Example Page", "ig-1")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(7)).WillReturnRows(rows)

	r := NewUserRepository(db)
	user, exists, err := r.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "owner@example.com", user.Email)
	require.Equal(t, "page-1", user.PageID)
	require.Equal(t, "ig-1", user.InstagramBusinessID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "google_id", "email", "name", "profile_picture",
		"meta_access_token", "page_id", "page_name", "instagram_business_id",
	})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WithArgs(int64(99)).WillReturnRows(rows)

	r := NewUserRepository(db)
	user, exists, err := r.GetByID(context.Background(), 99)
	require.NoError(t, err)
	require.False(t, exists)
	require.Nil(t, user)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetMetaCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	creds := &models.MetaCredentials{
		AccessToken:         "encrypted-token",
		PageID:              "page-1",
		PageName:            "Example Page",
		InstagramBusinessID: "ig-1",
		TokenExpiresAt:      time.Now().Add(60 * 24 * time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(int64(7), creds.AccessToken, creds.PageID, creds.PageName,
			creds.InstagramBusinessID, creds.TokenExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewUserRepository(db)
	require.NoError(t, r.SetMetaCredentials(context.Background(), 7, creds))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetMetaCredentialsUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewUserRepository(db)
	err = r.SetMetaCredentials(context.Background(), 99, &models.MetaCredentials{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListExpiringMeta(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	expires := now.Add(20 * time.Minute)
	rows := sqlmock.NewRows([]string{"id", "meta_access_token", "meta_token_expires_at"}).
		AddRow(int64(7), "encrypted-token", expires)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(now, now.Add(30*time.Minute)).
		WillReturnRows(rows)

	r := NewUserRepository(db)
	users, err := r.ListExpiringMeta(context.Background(), now, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, int64(7), users[0].ID)
	require.Equal(t, "encrypted-token", users[0].MetaAccessToken)
	require.NotNil(t, users[0].MetaTokenExpiresAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRemove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewUserRepository(db)
	require.NoError(t, r.Remove(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
