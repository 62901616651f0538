package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func newTestLoader() *Loader {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewLoader(log)
}

func TestLoadSeedRatings(t *testing.T) {
	loader := newTestLoader()

	teams, coords, err := loader.LoadSeedRatings(filepath.Join("testdata", "seed_ratings.json"))
	require.NoError(t, err)

	require.Len(t, teams, 4)
	require.Len(t, coords, 4)
	assert.Equal(t, "KC", teams[0].Abbreviation)
	assert.InDelta(t, 91.5, teams[0].Rating, 1e-9)
	assert.InDelta(t, 39.0489, coords["KC"][0], 1e-9)
}

func TestLoadSlate(t *testing.T) {
	loader := newTestLoader()
	_, coords, err := loader.LoadSeedRatings(filepath.Join("testdata", "seed_ratings.json"))
	require.NoError(t, err)

	entries, err := loader.LoadSlate(filepath.Join("testdata", "slate.json"), coords)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "LV", first.Context.Game.HomeTeam)
	assert.Equal(t, "KC", first.Context.Game.AwayTeam)
	assert.Equal(t, 2024, first.Context.Game.Season)
	assert.Equal(t, 8, first.Context.Game.Week)
	assert.True(t, first.Context.Game.Venue.Dome)
	assert.InDelta(t, 9.5, first.Line.Spread, 1e-9)
	require.Len(t, first.Injuries, 1)
	assert.Equal(t, models.StatusQuestionable, first.Injuries[0].Status)

	second := entries[1]
	require.NotNil(t, second.Context.Weather)
	assert.InDelta(t, 14.0, second.Context.Weather.WindSpeedMph, 1e-9)
}

func TestLoadSlateDerivesAwayTravelDistance(t *testing.T) {
	loader := newTestLoader()
	_, coords, err := loader.LoadSeedRatings(filepath.Join("testdata", "seed_ratings.json"))
	require.NoError(t, err)

	entries, err := loader.LoadSlate(filepath.Join("testdata", "slate.json"), coords)
	require.NoError(t, err)

	// KC traveling to Las Vegas is roughly 1140 miles.
	kcAtLV := entries[0]
	assert.InDelta(t, 1140, kcAtLV.Context.Away.TravelDistanceMi, 60)
	assert.Zero(t, kcAtLV.Context.Home.TravelDistanceMi)
}

func TestLoadSlateWithoutCoordsLeavesTravelZero(t *testing.T) {
	loader := newTestLoader()

	entries, err := loader.LoadSlate(filepath.Join("testdata", "slate.json"), nil)
	require.NoError(t, err)
	assert.Zero(t, entries[0].Context.Away.TravelDistanceMi)
}

func TestLoadGameLogOrderedWeeks(t *testing.T) {
	loader := newTestLoader()

	entries, err := loader.LoadGameLog(filepath.Join("testdata", "game_log.json"), nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Context.Game.Week)
	assert.True(t, entries[0].Context.Game.Completed())
	require.NotNil(t, entries[0].Line.ClosingSpread)
	assert.InDelta(t, -6.5, *entries[0].Line.ClosingSpread, 1e-9)

	margin, ok := entries[1].Context.Game.ActualMargin()
	require.True(t, ok)
	assert.InDelta(t, 14.0, margin, 1e-9)
}

func TestParseSlateRejectsInvalidRecords(t *testing.T) {
	loader := newTestLoader()

	cases := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"missing games", `{"season": 2024, "week": 8, "games": []}`},
		{"bad id", `{"season": 2024, "week": 8, "games": [{"id": "nope", "home_team": "KC", "away_team": "LV", "kickoff": "2024-10-27T20:05:00Z"}]}`},
		{"same team twice", `{"season": 2024, "week": 8, "games": [{"id": "0d4f8f2a-6c3b-4f0e-9e2a-1b7c5d9e3f10", "home_team": "KC", "away_team": "KC", "kickoff": "2024-10-27T20:05:00Z"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.ParseSlate([]byte(tc.json), nil)
			assert.Error(t, err)
		})
	}
}

func TestFetchSlateCachesWithinTTL(t *testing.T) {
	payload, err := os.ReadFile(filepath.Join("testdata", "slate.json"))
	require.NoError(t, err)

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/slates/2024/8", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(config.DatasetConfig{
		ServiceURL:         server.URL,
		APIKey:             "test-key",
		TimeoutSeconds:     5,
		MaxRetries:         1,
		RateLimitPerSecond: 100,
		CacheTTLSeconds:    60,
	}, newTestLoader(), nil)
	require.NoError(t, err)
	defer fetcher.Close()

	ctx := context.Background()
	first, err := fetcher.FetchSlate(ctx, 2024, 8, nil)
	require.NoError(t, err)
	second, err := fetcher.FetchSlate(ctx, 2024, 8, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second fetch should come from cache")
	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
}

func TestFetchSlateSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(config.DatasetConfig{
		ServiceURL:         server.URL,
		TimeoutSeconds:     5,
		RateLimitPerSecond: 100,
		CacheTTLSeconds:    60,
	}, newTestLoader(), nil)
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.FetchSlate(context.Background(), 2024, 9, nil)
	assert.Error(t, err)
}

func TestNewFetcherRequiresServiceURL(t *testing.T) {
	_, err := NewFetcher(config.DatasetConfig{}, newTestLoader(), nil)
	assert.Error(t, err)
}
