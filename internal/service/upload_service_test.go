package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpilot/postpilot/internal/models"
)

func imageFormFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(int64(buf.Len()) + 1024)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestAttachImageUnknownFileType(t *testing.T) {
	postRepo := &fakePostRepo{post: &models.Post{ID: "post-1", UserID: 1}}
	s := NewUploadService(postRepo, nil)

	file := imageFormFile(t, "notes.txt", []byte("just some text, not an image"))

	_, err := s.AttachImage(context.Background(), 1, "post-1", file)
	require.EqualError(t, err, "unsupported file type")
}

func TestAttachImageDisallowedFileType(t *testing.T) {
	postRepo := &fakePostRepo{post: &models.Post{ID: "post-1", UserID: 1}}
	s := NewUploadService(postRepo, nil)

	gif := append([]byte("GIF89a"), make([]byte, 32)...)
	file := imageFormFile(t, "anim.gif", gif)

	_, err := s.AttachImage(context.Background(), 1, "post-1", file)
	require.EqualError(t, err, "file type gif is not allowed")
}

func TestAttachImagePostNotOwned(t *testing.T) {
	postRepo := &fakePostRepo{post: &models.Post{ID: "post-1", UserID: 2}}
	s := NewUploadService(postRepo, nil)

	file := imageFormFile(t, "photo.png", []byte("irrelevant"))

	_, err := s.AttachImage(context.Background(), 1, "post-1", file)
	require.ErrorIs(t, err, ErrPostNotFound)
}
