package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
)

type PostService interface {
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, userID int64, postID string) (*models.Post, error)
	Update(ctx context.Context, userID int64, postID string, patch *models.PostPatch) error
	Schedule(ctx context.Context, userID int64, postID, postDate string) (time.Duration, error)
	Remove(ctx context.Context, userID int64, postID string) error
}

type postService struct {
	pr repository.PostRepository
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("error getting posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, userID int64, postID string) (*models.Post, error) {
	if postID == "" {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, errors.New("error getting post info")
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, userID int64, postID string, patch *models.PostPatch) error {
	if patch == nil {
		err := errors.New("update data is nil")
		slog.Info(err.Error())
		return err
	}

	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.pr.UpdatePartial(ctx, postID, patch); err != nil {
		return errors.New("error updating post")
	}
	return nil
}

// Schedule marks the post as scheduled for postDate and returns how long from
// now the publish task should be deferred.
func (s *postService) Schedule(ctx context.Context, userID int64, postID, postDate string) (time.Duration, error) {
	scheduledTime, err := time.Parse("2006-01-02T15:04", postDate)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return 0, err
	}

	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return 0, err
	}

	if err := s.pr.SetSchedule(ctx, postID, scheduledTime); err != nil {
		return 0, errors.New("error scheduling post")
	}

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}
	return delay, nil
}

func (s *postService) Remove(ctx context.Context, userID int64, postID string) error {
	if err := s.checkOwnership(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return errors.New("error removing post")
	}
	return nil
}

func (s *postService) checkOwnership(ctx context.Context, userID int64, postID string) error {
	if postID == "" {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	return nil
}
