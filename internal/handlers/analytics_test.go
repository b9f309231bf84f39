package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
)

type stubAnalytics struct {
	resp *models.AnalyticsResponse
	err  error
}

func (s *stubAnalytics) Analytics(context.Context, string) (*models.AnalyticsResponse, error) {
	return s.resp, s.err
}

func postAnalytics(h *AnalyticsHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/youtube/analytics", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.YouTube(rr, req)
	return rr
}

func TestYouTubeAnalytics_OK(t *testing.T) {
	fetched := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h := NewAnalyticsHandler(&stubAnalytics{resp: &models.AnalyticsResponse{
		Platform:  "YouTube",
		Analytics: models.YouTubeAnalytics{VideoID: "dQw4w9WgXcQ", ViewCount: 10},
		FetchedAt: fetched,
	}}, nil)

	rr := postAnalytics(h, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"platform":"YouTube"`)
	require.Contains(t, rr.Body.String(), `"video_id":"dQw4w9WgXcQ"`)
	require.Contains(t, rr.Body.String(), `"fetched_at":"2026-03-10T12:00:00Z"`)
}

func TestYouTubeAnalytics_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		error  string
	}{
		{"missing url", `{}`, nil, 400, "URL is required"},
		{"invalid url", `{"url":"https://vimeo.com/1"}`, services.ErrInvalidYouTubeURL, 400, "Invalid YouTube URL"},
		{"not found", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`, services.ErrVideoNotFound, 404, "Video not found"},
		{"unexpected", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`, errors.New("boom"), 500, "Internal server error"},
		{"bad body", `[`, nil, 500, "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := postAnalytics(NewAnalyticsHandler(&stubAnalytics{err: tc.err}, nil), tc.body)
			require.Equal(t, tc.status, rr.Code)
			require.JSONEq(t, `{"error":"`+tc.error+`"}`, rr.Body.String())
		})
	}
}
