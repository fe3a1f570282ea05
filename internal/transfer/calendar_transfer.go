package transfer

type CalendarRequest struct {
	BusinessIdea string `json:"business_idea"`
}

type GeneratedPost struct {
	Day      int      `json:"day"`
	Idea     string   `json:"idea"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

type GeneratedCalendar struct {
	Posts []GeneratedPost `json:"posts"`
}
