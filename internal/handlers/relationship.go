package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fincompass-backend/internal/services"
)

type RelationshipHandler struct {
	relationshipService services.RelationshipService
}

func NewRelationshipHandler(relationshipService services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

func (rh *RelationshipHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	record, err := rh.relationshipService.Get(c.Request.Context(), userID)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"relationship_status": record})
}

func (rh *RelationshipHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req struct {
		Status               string `json:"status"`
		SatisfactionScore    int    `json:"satisfaction_score"`
		FinancialImpactScore int    `json:"financial_impact_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := rh.relationshipService.Update(c.Request.Context(), userID, req.Status, req.SatisfactionScore, req.FinancialImpactScore)
	if err != nil {
		respondOutlookError(c, err)
		return
	}
	RespondOK(c, gin.H{"relationship_status": record})
}
