package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/transfer"
	"github.com/postpilot/postpilot/pkg/utils"
)

// Precondition failures. None of these ever reaches the Graph API: they are
// checked before any outbound call is made.
var (
	ErrMetaNotConnected = errors.New("facebook account is not connected")
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("post does not belong to this user")
	ErrMissingImage     = errors.New("post has no image attached")
)

const (
	containerPollDelay    = 2 * time.Second
	containerPollMaxDelay = 8 * time.Second
	containerPollTimeout  = 45 * time.Second
)

type PublishService interface {
	PublishNow(ctx context.Context, userID int64, postID string) (*transfer.PublishResult, error)
}

type publishService struct {
	cfg   config.Config
	u     repository.UserRepository
	p     repository.PostRepository
	graph GraphClient
}

func NewPublishService(cfg config.Config, u repository.UserRepository, p repository.PostRepository, graph GraphClient) PublishService {
	return &publishService{
		cfg:   cfg,
		u:     u,
		p:     p,
		graph: graph,
	}
}

// ComposeCaption builds the outbound text: caption, blank line, hashtags
// joined with single spaces in list order.
func ComposeCaption(caption string, hashtags []string) string {
	return caption + "\n\n" + strings.Join(hashtags, " ")
}

// PublishNow drives the Facebook and Instagram legs for one post. The legs
// run independently: a leg failure is captured in its LegResult and never
// prevents the other leg's attempt. The aggregate result is always produced
// and persisted on the post, even when both legs fail.
func (s *publishService) PublishNow(ctx context.Context, userID int64, postID string) (*transfer.PublishResult, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists || user.MetaAccessToken == "" || user.PageID == "" {
		return nil, ErrMetaNotConnected
	}

	post, err := s.p.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}
	if post.ImageURL == "" {
		return nil, ErrMissingImage
	}

	accessToken, err := utils.Decrypt(user.MetaAccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	message := ComposeCaption(post.Caption, post.Hashtags)

	var results transfer.PublishResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results.Facebook = s.publishFacebook(ctx, user.PageID, accessToken, post.ImageURL, message)
	}()
	go func() {
		defer wg.Done()
		results.Instagram = s.publishInstagram(ctx, user.InstagramBusinessID, accessToken, post.ImageURL, message)
	}()
	wg.Wait()

	status := models.PostStatusPosted
	if s.cfg.PostedStatusPolicy == config.PostedPolicyAnySuccess &&
		!results.Facebook.Success && !results.Instagram.Success {
		status = models.PostStatusFailed
	}

	resultsJSON, err := json.Marshal(&results)
	if err != nil {
		return nil, fmt.Errorf("error marshalling publish results: %w", err)
	}

	// No optimistic concurrency here: concurrent publishes of the same post
	// are last-write-wins on post_results. Acceptable for single-owner posts.
	if err := s.p.SetPublishOutcome(ctx, postID, status, time.Now(), resultsJSON); err != nil {
		return nil, fmt.Errorf("failed to update post status: %w", err)
	}

	return &results, nil
}

func (s *publishService) publishFacebook(ctx context.Context, pageID, accessToken, imageURL, caption string) transfer.LegResult {
	platformPostID, err := s.graph.PublishPhoto(ctx, pageID, accessToken, imageURL, caption)
	if err != nil {
		slog.Info(err.Error())
		return transfer.LegResult{Success: false, Error: err.Error()}
	}
	return transfer.LegResult{Success: true, PostID: platformPostID}
}

func (s *publishService) publishInstagram(ctx context.Context, igUserID, accessToken, imageURL, caption string) transfer.LegResult {
	if igUserID == "" {
		return transfer.LegResult{Success: false, Error: "Instagram not connected to Facebook page"}
	}

	creationID, err := s.graph.CreateMediaContainer(ctx, igUserID, accessToken, imageURL, caption)
	if err != nil {
		slog.Info(err.Error())
		return transfer.LegResult{Success: false, Error: err.Error()}
	}

	if err := s.waitForContainer(ctx, creationID, accessToken); err != nil {
		slog.Info(err.Error())
		return transfer.LegResult{Success: false, Error: err.Error()}
	}

	platformPostID, err := s.graph.PublishContainer(ctx, igUserID, accessToken, creationID)
	if err != nil {
		slog.Info(err.Error())
		return transfer.LegResult{Success: false, Error: err.Error()}
	}
	return transfer.LegResult{Success: true, PostID: platformPostID}
}

// waitForContainer polls the container's status_code with backoff until the
// platform reports FINISHED. The initial sleep doubles as the minimum dwell
// time the container flow needs before media_publish is allowed.
func (s *publishService) waitForContainer(ctx context.Context, creationID, accessToken string) error {
	deadline := time.Now().Add(containerPollTimeout)
	delay := containerPollDelay

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		status, err := s.graph.ContainerStatus(ctx, creationID, accessToken)
		if err != nil {
			return err
		}

		switch status {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("media container entered status %s", status)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for media container %s", creationID)
		}

		delay *= 2
		if delay > containerPollMaxDelay {
			delay = containerPollMaxDelay
		}
	}
}
