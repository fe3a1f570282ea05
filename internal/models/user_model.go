package models

import "time"

type User struct {
	ID                  int64      `db:"id" json:"id"`
	GoogleID            string     `db:"google_id" json:"google_id"`
	Email               string     `db:"email" json:"email"`
	Name                string     `db:"name" json:"name"`
	ProfilePicture      string     `db:"profile_picture" json:"profile_picture"`
	MetaAccessToken     string     `db:"meta_access_token" json:"-"`
	PageID              string     `db:"page_id" json:"page_id"`
	PageName            string     `db:"page_name" json:"page_name"`
	InstagramBusinessID string     `db:"instagram_business_id" json:"instagram_business_id"`
	MetaTokenExpiresAt  *time.Time `db:"meta_token_expires_at" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// MetaCredentials is written as a single update by the OAuth callback so the
// token and page id are never persisted without each other.
type MetaCredentials struct {
	AccessToken         string
	PageID              string
	PageName            string
	InstagramBusinessID string
	TokenExpiresAt      time.Time
}
