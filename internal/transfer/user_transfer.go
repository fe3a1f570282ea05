package transfer

type UserProfile struct {
	ID                   int64  `json:"id"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	ProfilePicture       string `json:"profile_picture"`
	PageName             string `json:"page_name,omitempty"`
	IsMetaConnected      bool   `json:"is_meta_connected"`
	IsInstagramConnected bool   `json:"is_instagram_connected"`
}
