package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/interfaces/middleware"
	"github.com/vallemarketing/valle360-social/usecase"
)

type IAccountHandler interface {
	List(ctx *gin.Context)
	Deactivate(ctx *gin.Context)
}

type accountHandler struct {
	accountUsecase usecase.IAccountUsecase
}

func NewAccountHandler(accountUsecase usecase.IAccountUsecase) IAccountHandler {
	return &accountHandler{accountUsecase: accountUsecase}
}

// List returns the tenant's connected accounts, metadata only. Token material
// never leaves the secrets table.
func (h *accountHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	var platform model.Platform
	if raw := c.Query("platform"); raw != "" {
		p, ok := model.ParsePlatform(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform"})
			return
		}
		platform = p
	}
	accounts, err := h.accountUsecase.List(c.Request.Context(), tenantID, platform)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}
	if accounts == nil {
		accounts = []*model.ConnectedAccount{}
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *accountHandler) Deactivate(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}
	if err := h.accountUsecase.Deactivate(c.Request.Context(), tenantID, accountID); err != nil {
		if errors.Is(err, model.ErrNotConnected) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.AccountStatusRevoked})
}
