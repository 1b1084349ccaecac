package preferences

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/server/middleware"
	"userprefs-backend/internal/shared/server/respond"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Get serves the caller's preferences, all keys null for a new user.
func (h *Handler) Get(c *gin.Context) error {
	prefs, _, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		return err
	}
	respond.OK(c, ViewOf(prefs))
	return nil
}

// Put applies a partial update and serves the merged record.
func (h *Handler) Put(c *gin.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		respond.Error(c, http.StatusBadRequest, "request body too large")
		return nil
	}

	upd, err := DecodeUpdate(body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return nil
	}

	prefs, err := h.Svc.Upsert(c.Request.Context(), middleware.UserIDFromContext(c), upd)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			respond.Error(c, http.StatusBadRequest, inputErr.Reason)
			return nil
		}
		return err
	}
	respond.OK(c, ViewOf(prefs))
	return nil
}
