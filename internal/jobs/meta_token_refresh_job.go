package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/repository"
	"github.com/postpilot/postpilot/internal/service"
)

type MetaTokenRefreshJob struct {
	u  repository.UserRepository
	ms service.MetaService
}

func NewMetaTokenRefreshJob(u repository.UserRepository, ms service.MetaService) *MetaTokenRefreshJob {
	return &MetaTokenRefreshJob{
		u:  u,
		ms: ms,
	}
}

// RefreshTokens renews long-lived Meta tokens that expire within the next 30
// minutes. A failed refresh is logged and retried on the next run.
func (c *MetaTokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	users, err := c.u.ListExpiringMeta(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, user := range users {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(user *models.User) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.ms.RefreshMetaToken(ctx, user.ID, user.MetaAccessToken); err != nil {
				slog.Info("unable to refresh meta token")
			}
		}(user)
	}

	wg.Wait()
}
