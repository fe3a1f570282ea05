package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postpilot/postpilot/internal/models"
	"github.com/postpilot/postpilot/internal/queue"
	"github.com/postpilot/postpilot/internal/service"
	"github.com/postpilot/postpilot/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	ps          service.PublishService
	AsynqClient *asynq.Client
}

func NewPostHandler(s service.PostService, ps service.PublishService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: s, ps: ps, AsynqClient: asynqClient}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.Query("id")

	if postID != "" {
		post, err := h.s.PostInfo(c.Context(), userID, postID)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.Params("id")

	var patch models.PostPatch
	if err := c.BodyParser(&patch); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), userID, postID, &patch); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post updated successfully",
	})
}

// PublishNow drives the publish orchestration for one post. Per-platform
// failures are part of the results payload, not an HTTP error.
func (h *PostHandler) PublishNow(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if req.PostID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post ID is required",
		})
	}

	results, err := h.ps.PublishNow(c.Context(), userID, req.PostID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post published",
		"results": results,
	})
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	delay, err := h.s.Schedule(c.Context(), userID, req.PostID, req.PostDate)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueuePost(h.AsynqClient, queue.PublishPostPayload{PostID: req.PostID, UserID: userID}, delay)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.Params("id")

	if err := h.s.Remove(c.Context(), userID, postID); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}
