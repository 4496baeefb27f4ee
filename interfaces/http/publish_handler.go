package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vallemarketing/valle360-social/domain/dto"
	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/interfaces/middleware"
	"github.com/vallemarketing/valle360-social/usecase"
)

type IPublishHandler interface {
	Publish(ctx *gin.Context)
	ListScheduled(ctx *gin.Context)
	CancelScheduled(ctx *gin.Context)
	ProcessScheduled(ctx *gin.Context)
}

type publishHandler struct {
	publishUsecase usecase.IPublishUsecase
}

func NewPublishHandler(publishUsecase usecase.IPublishUsecase) IPublishHandler {
	return &publishHandler{publishUsecase: publishUsecase}
}

// Publish runs a publish request immediately, or parks it when scheduled_at
// is set. Shape errors are 400; per-target failures come back 200 inside the
// result vector.
func (h *publishHandler) Publish(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	var body dto.PublishRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	postType, ok := model.ParsePostType(body.PostType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown post_type"})
		return
	}
	req := model.PublishRequest{
		PostType:  postType,
		Caption:   body.Caption,
		MediaURLs: body.MediaURLs,
		Targets:   body.Targets,
	}

	if body.ScheduledAt != "" {
		scheduledAt, err := time.Parse(time.RFC3339, body.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC3339"})
			return
		}
		post, err := h.publishUsecase.Schedule(c.Request.Context(), tenantID, req, scheduledAt)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.GetLogger().WithField("error", err).Error("Failed to schedule post")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule post"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"scheduled": post})
		return
	}

	resp, err := h.publishUsecase.Publish(c.Request.Context(), tenantID, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Publish failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *publishHandler) ListScheduled(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	posts, err := h.publishUsecase.ListScheduled(c.Request.Context(), tenantID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scheduled posts"})
		return
	}
	if posts == nil {
		posts = []*model.ScheduledPost{}
	}
	c.JSON(http.StatusOK, gin.H{"scheduled": posts})
}

func (h *publishHandler) CancelScheduled(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	if err := h.publishUsecase.CancelScheduled(c.Request.Context(), tenantID, postID); err != nil {
		if errors.Is(err, model.ErrInvalidRequest) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending scheduled post with that id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel scheduled post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.ScheduledStatusCancelled})
}

// ProcessScheduled triggers one due-post sweep. The background ticker does
// this on its own; the endpoint exists for operators and local development.
func (h *publishHandler) ProcessScheduled(c *gin.Context) {
	batch := 10
	if raw := c.Query("batch"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			batch = n
		}
	}
	processed, err := h.publishUsecase.ProcessDue(c.Request.Context(), batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process scheduled posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
