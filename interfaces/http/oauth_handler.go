package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/interfaces/middleware"
	"github.com/vallemarketing/valle360-social/usecase"
)

type IOAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	Callback(ctx *gin.Context)
}

type oauthHandler struct {
	connectUsecase usecase.IConnectUsecase
	returnURL      string
}

// NewOAuthHandler wires the connect flow. returnURL is the dashboard page the
// callback redirects back to.
func NewOAuthHandler(connectUsecase usecase.IConnectUsecase, returnURL string) IOAuthHandler {
	return &oauthHandler{connectUsecase: connectUsecase, returnURL: returnURL}
}

// GetAuthURL returns the provider consent URL for the authenticated tenant.
func (h *oauthHandler) GetAuthURL(c *gin.Context) {
	platform, ok := model.ParsePlatform(c.Param("platform"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform"})
		return
	}
	tenantID := middleware.TenantID(c)
	authURL, err := h.connectUsecase.AuthURL(tenantID, platform)
	if err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err).Error("Failed to build auth URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "oauth not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// Callback receives the provider redirect. The user lands back on the
// dashboard either way; failures carry a bounded error code, never provider
// response bodies.
func (h *oauthHandler) Callback(c *gin.Context) {
	lg := logger.GetLogger()
	platform := c.Param("platform")

	// User pressed cancel on the consent screen.
	if c.Query("error") != "" {
		lg.WithField("platform", platform).
			WithField("provider_error", c.Query("error")).
			Info("OAuth authorization denied")
		h.redirectError(c, "access_denied")
		return
	}
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.redirectError(c, "invalid_callback")
		return
	}

	result, err := h.connectUsecase.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		lg.WithField("platform", platform).WithField("error", err).Warn("OAuth callback failed")
		h.redirectError(c, callbackErrorCode(err))
		return
	}
	c.Redirect(http.StatusFound, h.returnURL+"?success="+url.QueryEscape(string(result.Platform)+"_connected"))
}

func (h *oauthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.returnURL+"?error="+url.QueryEscape(code))
}

// callbackErrorCode collapses callback failures into the bounded set the
// dashboard knows how to render.
func callbackErrorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrStateExpired):
		return "state_expired"
	case errors.Is(err, model.ErrStateReplayed):
		return "state_replayed"
	case errors.Is(err, model.ErrStateInvalid):
		return "invalid_state"
	}
	var exchErr *model.AuthExchangeError
	if errors.As(err, &exchErr) {
		return "exchange_failed"
	}
	return "connect_failed"
}
