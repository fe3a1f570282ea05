package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/transfer"
)

// ErrUpstreamParse means the generator replied with something that is not the
// JSON calendar we asked for. Nothing is persisted in that case.
var ErrUpstreamParse = errors.New("generator returned an unparseable response")

const calendarPromptTemplate = `You are a social media marketing expert. Create a 7-day content calendar for the following business idea: "%s"

Generate EXACTLY 7 social media posts (one for each day). For each post, provide:
- day: Day number (1-7)
- idea: A brief one-line content idea
- caption: An engaging caption (2-3 sentences, conversational tone)
- hashtags: Array of 5-8 relevant hashtags (including the #)

Return ONLY valid JSON in this exact format, no additional text:
{
  "posts": [
    {
      "day": 1,
      "idea": "content idea here",
      "caption": "engaging caption here",
      "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3"]
    }
  ]
}`

// ContentGenerator produces free text for a prompt. The Gemini client
// implements it; tests substitute a canned one.
type ContentGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type CalendarService interface {
	Generate(ctx context.Context, userID int64, businessIdea string) ([]*models.Post, error)
}

type calendarService struct {
	gen ContentGenerator
	pr  repository.PostRepository
}

func NewCalendarService(gen ContentGenerator, pr repository.PostRepository) CalendarService {
	return &calendarService{
		gen: gen,
		pr:  pr,
	}
}

// Generate asks the model for a 7-day calendar and persists the resulting
// posts as one batch. The response is parsed and validated before any write,
// so a malformed reply leaves no partial calendar behind.
func (s *calendarService) Generate(ctx context.Context, userID int64, businessIdea string) ([]*models.Post, error) {
	if businessIdea == "" {
		err := errors.New("business idea cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	prompt := fmt.Sprintf(calendarPromptTemplate, businessIdea)

	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to generate content calendar: %w", err)
	}

	calendar, err := parseCalendar(raw)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(calendar.Posts))
	for _, entry := range calendar.Posts {
		id, err := gonanoid.New()
		if err != nil {
			return nil, err
		}

		hashtags := entry.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}

		posts = append(posts, &models.Post{
			ID:       id,
			UserID:   userID,
			Day:      entry.Day,
			Idea:     entry.Idea,
			Caption:  entry.Caption,
			Hashtags: hashtags,
			Status:   models.PostStatusDraft,
		})
	}

	if err := s.pr.CreateBatch(ctx, posts); err != nil {
		return nil, fmt.Errorf("error saving generated posts: %w", err)
	}

	return posts, nil
}

func parseCalendar(raw string) (*transfer.GeneratedCalendar, error) {
	text := stripCodeFences(raw)

	var calendar transfer.GeneratedCalendar
	if err := json.Unmarshal([]byte(text), &calendar); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}

	if calendar.Posts == nil {
		slog.Info("generator response is missing the posts array")
		return nil, fmt.Errorf("%w: expected posts array in response", ErrUpstreamParse)
	}
	if len(calendar.Posts) == 0 {
		return nil, fmt.Errorf("%w: posts array is empty", ErrUpstreamParse)
	}

	return &calendar, nil
}

// stripCodeFences removes the markdown fencing models like to wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
