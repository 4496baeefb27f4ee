package http

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Health(ctx *gin.Context)
}

type healthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) IHealthHandler {
	return &healthHandler{db: db}
}

// Health reports service liveness and database reachability.
func (h *healthHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if h.db == nil {
		dbStatus = "unavailable"
	} else if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "unreachable"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": dbStatus})
}
