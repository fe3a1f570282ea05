package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// HandlePublishPostTask runs a deferred publish through the orchestrator. Leg
// failures are already captured inside the publish result; only precondition
// and storage errors bubble up to asynq for retry.
func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	results, err := q.ps.PublishNow(ctx, payload.UserID, payload.PostID)
	if err != nil {
		log.Printf("Error publishing scheduled post %s: %v", payload.PostID, err)
		return err
	}

	if !results.Facebook.Success {
		log.Printf("Facebook leg failed for scheduled post %s: %s", payload.PostID, results.Facebook.Error)
	}
	if !results.Instagram.Success {
		log.Printf("Instagram leg failed for scheduled post %s: %s", payload.PostID, results.Instagram.Error)
	}

	return nil
}
