package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fincompass-backend/internal/services"
)

type BatchHandler struct {
	batchService services.BatchService
}

func NewBatchHandler(batchService services.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Run triggers a batch regeneration for a date (default today).
func (bh *BatchHandler) Run(c *gin.Context) {
	var req struct {
		Date  string `json:"date"`
		Force bool   `json:"force"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := bh.batchService.RunDaily(c.Request.Context(), date, req.Force)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}
