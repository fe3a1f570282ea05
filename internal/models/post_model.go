package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID          string          `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Day         int             `db:"day" json:"day"`
	Idea        string          `db:"idea" json:"idea"`
	Caption     string          `db:"caption" json:"caption"`
	Hashtags    pq.StringArray  `db:"hashtags" json:"hashtags"`
	Status      string          `db:"status" json:"status"`
	ImageURL    string          `db:"image_url" json:"image_url,omitempty"`
	PostDate    *time.Time      `db:"post_date" json:"post_date,omitempty"`
	PostedAt    *time.Time      `db:"posted_at" json:"posted_at,omitempty"`
	PostResults json.RawMessage `db:"post_results" json:"post_results,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// PostPatch carries a partial update; nil fields are left untouched.
type PostPatch struct {
	Idea     *string    `json:"idea"`
	Caption  *string    `json:"caption"`
	Hashtags []string   `json:"hashtags"`
	Status   *string    `json:"status"`
	ImageURL *string    `json:"image_url"`
	PostDate *time.Time `json:"post_date"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
)
