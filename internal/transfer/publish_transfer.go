package transfer

// LegResult is the outcome of one platform-specific publish attempt. A failed
// leg is data, not an error: it is embedded in the response and in the post's
// post_results column.
type LegResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PublishResult struct {
	Facebook  LegResult `json:"facebook"`
	Instagram LegResult `json:"instagram"`
}

type PublishRequest struct {
	PostID string `json:"post_id"`
}

type ScheduleRequest struct {
	PostID   string `json:"post_id"`
	PostDate string `json:"post_date"`
}
