package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/pkg/utils"
)

const (
	metaAuthURL = "https://www.facebook.com/v18.0/dialog/oauth"
	metaScopes  = "pages_show_list,pages_manage_posts,instagram_basic,instagram_content_publish,pages_read_engagement"
)

type MetaService interface {
	ConnectURL(state string) string
	Callback(ctx context.Context, code string, userID int64) error
	RefreshMetaToken(ctx context.Context, userID int64, encryptedToken string) error
}

type metaService struct {
	cfg   config.Config
	u     repository.UserRepository
	graph GraphClient
}

func NewMetaService(cfg config.Config, u repository.UserRepository, graph GraphClient) MetaService {
	return &metaService{
		cfg:   cfg,
		u:     u,
		graph: graph,
	}
}

func (s *metaService) ConnectURL(state string) string {
	params := url.Values{}
	params.Add("client_id", s.cfg.MetaAppID)
	params.Add("redirect_uri", s.cfg.MetaRedirectURI)
	params.Add("scope", metaScopes)
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", metaAuthURL, params.Encode())
}

// Callback runs the full connect chain: code -> short-lived token ->
// long-lived token -> page list -> linked Instagram business account, then
// persists everything in a single update. A failure at any required step
// aborts the flow with nothing written.
func (s *metaService) Callback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	if userID == 0 {
		err := errors.New("user not found")
		slog.Info(err.Error())
		return err
	}

	shortLivedToken, err := s.graph.ExchangeCode(ctx, s.cfg.MetaAppID, s.cfg.MetaAppSecret, s.cfg.MetaRedirectURI, code)
	if err != nil {
		return err
	}

	longLivedToken, expiresIn, err := s.graph.ExchangeLongLivedToken(ctx, s.cfg.MetaAppID, s.cfg.MetaAppSecret, shortLivedToken)
	if err != nil {
		return err
	}

	pages, err := s.graph.ListPages(ctx, longLivedToken)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		err := errors.New("no facebook pages found for this account")
		slog.Info(err.Error())
		return err
	}

	// Account selection policy: take the first page. Letting the user choose
	// between pages is a frontend concern this service doesn't have yet.
	page := pages[0]

	// A page without a linked Instagram business account is fine; publishing
	// simply skips the Instagram leg later.
	instagramBusinessID, err := s.graph.InstagramBusinessAccount(ctx, page.ID, page.AccessToken)
	if err != nil {
		slog.Info("instagram business account lookup failed: " + err.Error())
		instagramBusinessID = ""
	}

	encryptedToken, err := utils.Encrypt([]byte(page.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	creds := &models.MetaCredentials{
		AccessToken:         encryptedToken,
		PageID:              page.ID,
		PageName:            page.Name,
		InstagramBusinessID: instagramBusinessID,
		TokenExpiresAt:      GetExpiresAt(expiresIn),
	}

	if err := s.u.SetMetaCredentials(ctx, userID, creds); err != nil {
		return err
	}

	return nil
}

// RefreshMetaToken swaps a long-lived token that is close to expiry for a
// fresh one.
func (s *metaService) RefreshMetaToken(ctx context.Context, userID int64, encryptedToken string) error {
	accessToken, err := utils.Decrypt(encryptedToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	newToken, expiresIn, err := s.graph.ExchangeLongLivedToken(ctx, s.cfg.MetaAppID, s.cfg.MetaAppSecret, accessToken)
	if err != nil {
		return err
	}

	encryptedNewToken, err := utils.Encrypt([]byte(newToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.u.SetMetaToken(ctx, userID, encryptedNewToken, GetExpiresAt(expiresIn))
}
