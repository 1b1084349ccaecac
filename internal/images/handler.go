package images

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/server/middleware"
	"userprefs-backend/internal/shared/server/respond"
)

const (
	msgForbidden    = "Forbidden: You don't own this image"
	msgDeleteFailed = "Failed to delete image"

	maxBodyBytes = 64 << 10
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

type downloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// UploadURL issues a presigned PUT for a new key.
func (h *Handler) UploadURL(c *gin.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		respond.Error(c, http.StatusBadRequest, "request body too large")
		return nil
	}
	var req uploadRequest
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &req); err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid request body")
			return nil
		}
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)
	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "fileName is required")
		return nil
	}
	if req.ContentType == "" {
		respond.Error(c, http.StatusBadRequest, "contentType is required")
		return nil
	}

	grant, err := h.Svc.IssueUpload(c.Request.Context(), middleware.UserIDFromContext(c), req.FileName, req.ContentType)
	if err != nil {
		return err
	}
	c.Set("imageKey", grant.Key)
	respond.OK(c, uploadResponse{UploadURL: grant.URL, Key: grant.Key})
	return nil
}

// DownloadURL issues a presigned GET for an owned key.
func (h *Handler) DownloadURL(c *gin.Context) error {
	key := keyParam(c)
	c.Set("imageKey", key)

	grant, err := h.Svc.IssueDownload(c.Request.Context(), middleware.UserIDFromContext(c), key)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			respond.Error(c, http.StatusForbidden, msgForbidden)
			return nil
		}
		return err
	}
	respond.OK(c, downloadResponse{DownloadURL: grant.URL})
	return nil
}

// DeleteImage removes an owned object.
func (h *Handler) DeleteImage(c *gin.Context) error {
	key := keyParam(c)
	c.Set("imageKey", key)

	err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), key)
	switch {
	case err == nil:
		respond.NoContent(c)
		return nil
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, msgForbidden)
		return nil
	case errors.Is(err, ErrDeleteFailed):
		respond.ErrorCause(c, http.StatusInternalServerError, msgDeleteFailed, err)
		return nil
	default:
		return err
	}
}

// keyParam is the decoded remainder of the path after the route prefix.
func keyParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}
