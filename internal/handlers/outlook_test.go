package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/fincompass-backend/internal/requestdata"
	"github.com/yungbote/fincompass-backend/internal/services"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// stubOutlookService returns scripted results per operation.
type stubOutlookService struct {
	payload    *types.DailyOutlookPayload
	todayErr   error
	historyErr error
}

func (s *stubOutlookService) GetToday(ctx context.Context, userID uuid.UUID) (*types.DailyOutlookPayload, error) {
	return s.payload, s.todayErr
}
func (s *stubOutlookService) GenerateForUser(ctx context.Context, userID uuid.UUID, date time.Time, force bool) (*types.DailyOutlook, bool, error) {
	return nil, false, nil
}
func (s *stubOutlookService) CompleteAction(ctx context.Context, userID uuid.UUID, actionID string, completed bool) (*types.DailyOutlookPayload, error) {
	return s.payload, nil
}
func (s *stubOutlookService) Rate(ctx context.Context, userID uuid.UUID, value int) error {
	return nil
}
func (s *stubOutlookService) StreakInfo(ctx context.Context, userID uuid.UUID) (*services.StreakInfo, error) {
	return &services.StreakInfo{CurrentStreak: 5, NextMilestone: 7}, nil
}
func (s *stubOutlookService) History(ctx context.Context, userID uuid.UUID, days int) ([]*types.DailyOutlookPayload, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return []*types.DailyOutlookPayload{s.payload}, nil
}

func outlookTestRouter(svc services.OutlookService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != uuid.Nil {
		router.Use(func(c *gin.Context) {
			ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		})
	}
	oh := NewOutlookHandler(svc)
	router.GET("/outlook/today", oh.GetToday)
	router.GET("/outlook/history", oh.History)
	router.GET("/outlook/streak", oh.StreakInfo)
	return router
}

func TestOutlookHandler_GetToday(t *testing.T) {
	stub := &stubOutlookService{payload: &types.DailyOutlookPayload{Date: "2026-08-29", StreakCount: 5}}
	router := outlookTestRouter(stub, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/outlook/today", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Outlook types.DailyOutlookPayload `json:"outlook"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Outlook.Date != "2026-08-29" || body.Outlook.StreakCount != 5 {
		t.Fatalf("payload = %+v", body.Outlook)
	}
}

func TestOutlookHandler_Unauthenticated(t *testing.T) {
	router := outlookTestRouter(&stubOutlookService{}, uuid.Nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outlook/today", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestOutlookHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		stub     *stubOutlookService
		path     string
		wantCode int
		wantTag  string
	}{
		{
			name:     "not ready maps to 202",
			stub:     &stubOutlookService{todayErr: services.ErrOutlookNotReady},
			path:     "/outlook/today",
			wantCode: http.StatusAccepted,
			wantTag:  "not_ready",
		},
		{
			name:     "tier gate maps to 403 upgrade prompt",
			stub:     &stubOutlookService{historyErr: services.ErrTierRequired},
			path:     "/outlook/history",
			wantCode: http.StatusForbidden,
			wantTag:  "upgrade_required",
		},
		{
			name:     "transient persistence maps to 503",
			stub:     &stubOutlookService{todayErr: services.ErrRetryable},
			path:     "/outlook/today",
			wantCode: http.StatusServiceUnavailable,
			wantTag:  "retry_later",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := outlookTestRouter(tc.stub, uuid.New())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantCode, w.Body.String())
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantTag {
				t.Fatalf("error code = %q, want %q", envelope.Error.Code, tc.wantTag)
			}
		})
	}
}
