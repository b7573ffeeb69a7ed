package ranksource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	"github.com/rankwatch/rankwatch/internal/observability"
)

func TestHTTPClient_CurrentRank(t *testing.T) {
	viewerID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/viewers/%s/rank", viewerID), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		fmt.Fprint(w, `{"tier":"GOLD","division":"II","points":45}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", 100, 10, observability.NoOpLogger)

	got, err := client.CurrentRank(context.Background(), viewerID)
	require.NoError(t, err)
	assert.Equal(t, rankdomain.Observation{Tier: rankdomain.TierGold, Division: rankdomain.DivisionII, Points: 45}, got)
}

func TestHTTPClient_CurrentRank_Unranked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 100, 10, observability.NoOpLogger)

	_, err := client.CurrentRank(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrRankUnavailable)
}

func TestHTTPClient_CurrentRank_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 100, 10, observability.NoOpLogger)

	_, err := client.CurrentRank(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRankUnavailable)
}

func TestHTTPClient_RankHistory(t *testing.T) {
	viewerID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/viewers/%s/rank/history", viewerID), r.URL.Path)
		fmt.Fprint(w, `[
			{"tier":"SILVER","division":"I","points":80},
			{"tier":"MASTER","points":120},
			{"tier":"SOMETHING_NEW","points":5}
		]`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 100, 10, observability.NoOpLogger)

	got, err := client.RankHistory(context.Background(), viewerID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, rankdomain.Observation{Tier: rankdomain.TierSilver, Division: rankdomain.DivisionI, Points: 80}, got[0])
	assert.Equal(t, rankdomain.Observation{Tier: rankdomain.TierMaster, Points: 120}, got[1])
	// Unknown tiers come through as invalid observations for the selector
	// to skip, not as transport errors.
	assert.False(t, got[2].Valid())
}

func TestHTTPClient_RespectsContextCancellation(t *testing.T) {
	// A zero-rate limiter can never admit the request; the canceled context
	// must fail the wait instead of blocking forever.
	client := NewHTTPClient("http://unreachable.invalid", "", 0, 0, observability.NoOpLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CurrentRank(ctx, uuid.NewString())
	assert.Error(t, err)
}
