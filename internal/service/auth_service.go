package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthService interface {
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

// LoginCallback exchanges the Google authorization code, resolves the
// identity and upserts the local user record.
func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return 0, err
	}

	oauth2Config := &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}

	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return 0, err
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	client := oauth2Config.Client(ctx, token)

	userInfo, err := getGoogleUserInfo(client)
	if err != nil {
		return 0, err
	}

	user, isExist, err := s.u.GetByEmail(ctx, userInfo.Email)
	if err != nil {
		return 0, err
	}

	if isExist {
		return user.ID, nil
	}

	userID, err := s.u.Create(ctx, nil, &models.User{
		GoogleID:       userInfo.ID,
		Email:          userInfo.Email,
		Name:           userInfo.Name,
		ProfilePicture: userInfo.Picture,
	})
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return userID, nil
}

func getGoogleUserInfo(client *http.Client) (*transfer.GoogleUserInfo, error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var userInfo transfer.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &userInfo, nil
}
