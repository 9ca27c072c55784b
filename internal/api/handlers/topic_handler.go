package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sensusai/sensus-server/internal/api/models"
	coremodels "github.com/sensusai/sensus-server/internal/core/models"
)

func ListTopics(c *gin.Context) {
	c.JSON(http.StatusOK, coremodels.Topics())
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
