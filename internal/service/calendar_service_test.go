package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpilot/postpilot/internal/models"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

const sevenDayCalendar = `{
  "posts": [
    {"day": 1, "idea": "Behind the scenes", "caption": "Come see how it's made.", "hashtags": ["#coffee", "#local"]},
    {"day": 2, "idea": "Customer spotlight", "caption": "Meet our regulars.", "hashtags": ["#community"]},
    {"day": 3, "idea": "New menu item", "caption": "Something new is brewing.", "hashtags": ["#launch"]},
    {"day": 4, "idea": "Tips and tricks", "caption": "Brew better at home.", "hashtags": ["#howto"]},
    {"day": 5, "idea": "Team intro", "caption": "The people behind the counter.", "hashtags": ["#team"]},
    {"day": 6, "idea": "Weekend special", "caption": "This weekend only.", "hashtags": ["#weekend"]},
    {"day": 7, "idea": "Week recap", "caption": "What a week it has been.", "hashtags": []}
  ]
}`

func TestGeneratePersistsSevenDrafts(t *testing.T) {
	gen := &stubGenerator{response: sevenDayCalendar}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	posts, err := s.Generate(context.Background(), 42, "a cozy coffee shop")
	require.NoError(t, err)
	require.Len(t, posts, 7)

	require.Len(t, postRepo.batches, 1)
	require.Len(t, postRepo.batches[0], 7)

	for i, post := range posts {
		require.NotEmpty(t, post.ID)
		require.Equal(t, int64(42), post.UserID)
		require.Equal(t, i+1, post.Day)
		require.Equal(t, models.PostStatusDraft, post.Status)
		require.Empty(t, post.ImageURL)
		require.NotNil(t, post.Hashtags)
	}

	require.Len(t, gen.prompts, 1)
	require.Contains(t, gen.prompts[0], "a cozy coffee shop")
}

func TestGenerateStripsCodeFences(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + sevenDayCalendar + "\n```"}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	posts, err := s.Generate(context.Background(), 1, "a bakery")
	require.NoError(t, err)
	require.Len(t, posts, 7)
}

func TestGenerateMalformedResponse(t *testing.T) {
	gen := &stubGenerator{response: "Sure! Here is your calendar: day one..."}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	_, err := s.Generate(context.Background(), 1, "a bakery")
	require.ErrorIs(t, err, ErrUpstreamParse)
	require.Empty(t, postRepo.batches)
}

func TestGenerateMissingPostsArray(t *testing.T) {
	gen := &stubGenerator{response: `{"calendar": []}`}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	_, err := s.Generate(context.Background(), 1, "a bakery")
	require.ErrorIs(t, err, ErrUpstreamParse)
	require.Empty(t, postRepo.batches)
}

func TestGenerateEmptyPostsArray(t *testing.T) {
	gen := &stubGenerator{response: `{"posts": []}`}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	_, err := s.Generate(context.Background(), 1, "a bakery")
	require.ErrorIs(t, err, ErrUpstreamParse)
	require.Empty(t, postRepo.batches)
}

func TestGenerateEmptyBusinessIdea(t *testing.T) {
	gen := &stubGenerator{}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	_, err := s.Generate(context.Background(), 1, "")
	require.Error(t, err)
	require.Empty(t, gen.prompts)
	require.Empty(t, postRepo.batches)
}

func TestGenerateGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exhausted")}
	postRepo := &fakePostRepo{}
	s := NewCalendarService(gen, postRepo)

	_, err := s.Generate(context.Background(), 1, "a bakery")
	require.Error(t, err)
	require.Empty(t, postRepo.batches)
}
