package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/transfer"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*transfer.UserProfile, error)
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

// GetUserInfo returns the profile plus connection flags. The access token
// itself never leaves the server.
func (s *userService) GetUserInfo(ctx context.Context, id int64) (*transfer.UserProfile, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("error getting user info")
	}

	if !isExist {
		err = errors.New("user not found")
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.UserProfile{
		ID:                   user.ID,
		Email:                user.Email,
		Name:                 user.Name,
		ProfilePicture:       user.ProfilePicture,
		PageName:             user.PageName,
		IsMetaConnected:      user.MetaAccessToken != "",
		IsInstagramConnected: user.InstagramBusinessID != "",
	}, nil
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	err := s.u.Remove(ctx, userID)
	if err != nil {
		return err
	}
	return nil
}
