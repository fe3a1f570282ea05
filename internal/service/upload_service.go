package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/postpilot/postpilot/internal/repository"
)

type UploadService interface {
	AttachImage(ctx context.Context, userID int64, postID string, file *multipart.FileHeader) (string, error)
}

type uploadService struct {
	pr repository.PostRepository
	r2 *R2Service
}

func NewUploadService(pr repository.PostRepository, r2 *R2Service) UploadService {
	return &uploadService{
		pr: pr,
		r2: r2,
	}
}

// AttachImage validates the uploaded file is an image, stores it on R2 and
// records its public URL on the post. Publishing stays blocked until a post
// has an image URL.
func (s *uploadService) AttachImage(ctx context.Context, userID int64, postID string, file *multipart.FileHeader) (string, error) {
	if postID == "" {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return "", err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return "", err
	}
	if !isValid {
		return "", ErrPostNotFound
	}

	fileContent, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil {
		return "", fmt.Errorf("error detecting file type: %w", err)
	}
	if fileType == types.Unknown {
		return "", errors.New("unsupported file type")
	}

	allowedTypes := map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {},
	}
	if _, ok := allowedTypes[fileType.Extension]; !ok {
		return "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if err := s.r2.UploadToR2(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return "", fmt.Errorf("error uploading file: %w", err)
	}

	imageURL := s.r2.PublicURL(key)

	if err := s.pr.SetImageURL(ctx, postID, imageURL); err != nil {
		return "", fmt.Errorf("error saving image url: %w", err)
	}

	return imageURL, nil
}
