package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/fincompass-backend/internal/requestdata"
	"github.com/yungbote/fincompass-backend/internal/services"
)

type OutlookHandler struct {
	outlookService services.OutlookService
}

func NewOutlookHandler(outlookService services.OutlookService) *OutlookHandler {
	return &OutlookHandler{outlookService: outlookService}
}

func (oh *OutlookHandler) GetToday(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	payload, err := oh.outlookService.GetToday(c.Request.Context(), userID)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"outlook": payload})
}

func (oh *OutlookHandler) CompleteAction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	actionID := c.Param("action_id")
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	payload, err := oh.outlookService.CompleteAction(c.Request.Context(), userID, actionID, req.Completed)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"outlook": payload})
}

func (oh *OutlookHandler) Rate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req struct {
		Value int `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := oh.outlookService.Rate(c.Request.Context(), userID, req.Value); err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": "true"})
}

func (oh *OutlookHandler) StreakInfo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	info, err := oh.outlookService.StreakInfo(c.Request.Context(), userID)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"streak": info})
}

func (oh *OutlookHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	payloads, err := oh.outlookService.History(c.Request.Context(), userID, days)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": payloads})
}

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// respondOutlookError keeps the user-visible distinction between "upgrade
// your tier" and "nothing computed yet, retry later".
func respondOutlookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTierRequired):
		RespondError(c, http.StatusForbidden, "upgrade_required", err)
	case errors.Is(err, services.ErrOutlookNotReady):
		RespondError(c, http.StatusAccepted, "not_ready", err)
	case errors.Is(err, services.ErrInvalidScoreRange):
		RespondError(c, http.StatusBadRequest, "validation", err)
	case errors.Is(err, services.ErrRetryable):
		RespondError(c, http.StatusServiceUnavailable, "retry_later", err)
	default:
		RespondError(c, http.StatusBadRequest, "", err)
	}
}
