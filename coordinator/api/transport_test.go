package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/federator/coordinator"
	"github.com/absmach/federator/coordinator/api"
	"github.com/absmach/federator/pkg/fedavg"
	"github.com/absmach/federator/pkg/proto"
	"github.com/absmach/federator/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(_ proto.Message) error { return nil }

func (nopSender) Close() error { return nil }

func newServer(t *testing.T, target int) (coordinator.Service, *httptest.Server) {
	t.Helper()

	svc := coordinator.NewService(target, fedavg.NewFedAvg(), storage.NewInMemoryStorage(), slog.Default())
	ts := httptest.NewServer(api.MakeHandler(svc, slog.Default(), "test-instance"))
	t.Cleanup(ts.Close)

	return svc, ts
}

func get(t *testing.T, url string, out any) int {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}

	return res.StatusCode
}

func TestStatusEndpoint(t *testing.T) {
	svc, ts := newServer(t, 3)

	_, _, err := svc.Register(context.Background(), "alice", 100, 2, nopSender{})
	require.NoError(t, err)

	var status coordinator.Status
	code := get(t, ts.URL+"/status", &status)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, status.Round)
	assert.Equal(t, coordinator.StateAwaitingParticipants, status.State)
	assert.Equal(t, 3, status.Target)
	assert.Equal(t, 1, status.Registered)
}

func TestListParticipantsEndpoint(t *testing.T) {
	svc, ts := newServer(t, 10)

	for _, id := range []string{"alice", "bob", "carol"} {
		_, _, err := svc.Register(context.Background(), id, 100, 2, nopSender{})
		require.NoError(t, err)
	}

	var page coordinator.ParticipantPage
	code := get(t, ts.URL+"/participants?offset=1&limit=1", &page)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint64(3), page.Total)
	require.Len(t, page.Participants, 1)
	assert.Equal(t, "bob", page.Participants[0].ID)
}

func TestListRoundsEndpoint(t *testing.T) {
	svc, ts := newServer(t, 1)

	_, _, err := svc.Register(context.Background(), "alice", 100, 1, nopSender{})
	require.NoError(t, err)
	require.NoError(t, svc.Submit(context.Background(), fedavg.Contribution{
		ClientID:    "alice",
		Vector:      []float64{1, 2},
		SampleCount: 100,
		Accuracy:    0.7,
		Round:       0,
	}))

	var page coordinator.RoundPage
	code := get(t, ts.URL+"/rounds", &page)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint64(1), page.Total)
	require.Len(t, page.Rounds, 1)
	assert.Equal(t, 0, page.Rounds[0].Round)
	assert.Equal(t, []string{"alice"}, page.Rounds[0].Contributors)
}

func TestListQueryValidation(t *testing.T) {
	_, ts := newServer(t, 3)

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"default paging", "", http.StatusOK},
		{"zero limit", "?limit=0", http.StatusBadRequest},
		{"limit above maximum", "?limit=200", http.StatusBadRequest},
		{"malformed offset", "?offset=abc", http.StatusBadRequest},
		{"negative offset", "?offset=-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := get(t, ts.URL+"/participants"+tt.query, nil)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newServer(t, 3)

	var health map[string]string
	code := get(t, ts.URL+"/health", &health)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pass", health["status"])
	assert.Equal(t, "test-instance", health["instance_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newServer(t, 3)

	code := get(t, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, code)
}
