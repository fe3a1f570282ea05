package queue

import (
	"github.com/postpilot/postpilot/internal/service"
)

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{ps: ps}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
	UserID int64  `json:"user_id"`
}
