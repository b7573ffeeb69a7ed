package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsservice "github.com/rankwatch/rankwatch/app/modules/stats/application"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/observability"
)

// fakeRankService programs just the operations the API touches.
type fakeRankService struct {
	rankservice.Service

	getViewerRank func(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error)
	setShowPeak   func(ctx context.Context, viewerID string, showPeak bool) error
}

func (f *fakeRankService) GetViewerRank(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
	return f.getViewerRank(ctx, viewerID)
}

func (f *fakeRankService) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	return f.setShowPeak(ctx, viewerID, showPeak)
}

type fakeStatsService struct {
	statsservice.Service

	getChannelStats func(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error)
}

func (f *fakeStatsService) GetChannelStats(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error) {
	return f.getChannelStats(ctx, channelID, window)
}

func (f *fakeStatsService) StatDate(now time.Time) string {
	return statsdomain.NewClock(statsdomain.DefaultResetHourUTC).StatDate(now)
}

func newTestRouter(rank rankservice.Service, stats statsservice.Service) http.Handler {
	return NewRouter(NewHandlers(rank, stats, nil, observability.NoOpLogger))
}

func TestGetViewerRank(t *testing.T) {
	rank := &fakeRankService{
		getViewerRank: func(ctx context.Context, viewerID string) (*rankdb.ViewerRank, error) {
			if viewerID != "v1" {
				return nil, rankdb.ErrViewerRankNotFound
			}
			return &rankdb.ViewerRank{
				ViewerID:        "v1",
				DisplayName:     "alpha",
				CurrentTier:     "GOLD",
				CurrentDivision: "II",
				CurrentPoints:   45,
				PeakTier:        "PLATINUM",
				PeakDivision:    "IV",
				PeakPoints:      10,
			}, nil
		},
	}
	router := newTestRouter(rank, &fakeStatsService{})

	t.Run("known viewer", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/viewers/v1/rank", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body viewerRankResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "v1", body.ViewerID)
		assert.Equal(t, "GOLD", body.Current.Tier)
		assert.Equal(t, "II", body.Current.Division)
		assert.Equal(t, rankdomain.Score(rankdomain.Observation{Tier: rankdomain.TierGold, Division: rankdomain.DivisionII, Points: 45}), body.Current.Score)
		assert.Equal(t, "PLATINUM", body.Peak.Tier)
	})

	t.Run("unknown viewer", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/viewers/missing/rank", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSetShowPeak(t *testing.T) {
	var gotShowPeak bool
	rank := &fakeRankService{
		setShowPeak: func(ctx context.Context, viewerID string, showPeak bool) error {
			gotShowPeak = showPeak
			return nil
		},
	}
	router := newTestRouter(rank, &fakeStatsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/viewers/v1/peak-visibility", strings.NewReader(`{"show_peak":true}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, gotShowPeak)
}

func TestGetChannelStats(t *testing.T) {
	mean := 600.0
	stats := &fakeStatsService{
		getChannelStats: func(ctx context.Context, channelID string, window statsdomain.Window) (*statsdb.ChannelStats, error) {
			if channelID != "chan1" {
				return nil, statsdb.ErrStatsNotFound
			}
			return &statsdb.ChannelStats{
				ChannelID:   channelID,
				Scope:       string(window.Scope),
				StatDate:    window.Date,
				ViewerCount: 4,
				MeanScore:   &mean,
			}, nil
		},
	}
	router := newTestRouter(&fakeRankService{}, stats)

	t.Run("all-time row", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels/chan1/stats", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body statsdb.ChannelStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "all_time", body.Scope)
		assert.Equal(t, 4, body.ViewerCount)
	})

	t.Run("daily row with explicit date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels/chan1/stats/daily?date=2026-03-10", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body statsdb.ChannelStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "daily", body.Scope)
		assert.Equal(t, "2026-03-10", body.StatDate)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels/chan1/stats/daily?date=March+10", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown channel", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels/nope/stats", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTriggerCycle_WithoutScheduler(t *testing.T) {
	router := newTestRouter(&fakeRankService{}, &fakeStatsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/cycles", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeRankService{}, &fakeStatsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
