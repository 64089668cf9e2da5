package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func getProbe(t *testing.T, endpoint http.HandlerFunc) (int, probeBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	endpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body probeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func alwaysFail(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func alwaysPass(context.Context) error { return nil }

func TestLiveEndpoint(t *testing.T) {
	t.Run("NoChecks", func(t *testing.T) {
		code, body := getProbe(t, New().LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("ChecksStartUp", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("db", time.Second, alwaysFail("connection refused"))

		// Never ran, so the failure streak is empty.
		code, _ := getProbe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("DownAfterStreak", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("db", time.Second, alwaysFail("connection refused"))

		ctx := context.Background()
		for range downAfter {
			s.liveness[0].run(ctx)
		}

		code, body := getProbe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "connection refused", body.Checks["db"])
	})

	t.Run("StreakBelowThreshold", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("db", time.Second, alwaysFail("connection refused"))

		ctx := context.Background()
		for range downAfter - 1 {
			s.liveness[0].run(ctx)
		}

		code, _ := getProbe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestCheckRecoversOnFirstSuccess(t *testing.T) {
	failing := true
	s := New()
	s.AddLivenessCheck("flaky", time.Second, func(context.Context) error {
		if failing {
			return errors.New("down")
		}
		return nil
	})

	ctx := context.Background()
	c := s.liveness[0]
	for range downAfter {
		c.run(ctx)
	}
	down, _ := c.status()
	require.True(t, down)

	failing = false
	c.run(ctx)
	down, _ = c.status()
	assert.False(t, down, "one success brings the check back")
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("NotMarkedReady", func(t *testing.T) {
		s := New()
		code, body := getProbe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not marked ready", body.Checks["service"])
	})

	t.Run("Ready", func(t *testing.T) {
		s := New()
		s.AddReadinessCheck("postgres", time.Second, alwaysPass)
		s.SetReady(true)

		code, body := getProbe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("DrainOnShutdown", func(t *testing.T) {
		s := New()
		s.SetReady(true)
		s.SetReady(false)

		code, _ := getProbe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	t.Run("OnlyFailingChecksReported", func(t *testing.T) {
		s := New()
		s.AddReadinessCheck("postgres", time.Second, alwaysPass)
		s.AddReadinessCheck("cache", time.Second, alwaysFail("cache down"))
		s.SetReady(true)

		ctx := context.Background()
		for range downAfter {
			s.readiness[0].run(ctx)
			s.readiness[1].run(ctx)
		}

		code, body := getProbe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "cache down", body.Checks["cache"])
		assert.NotContains(t, body.Checks, "postgres")
	})
}

func TestIsReady(t *testing.T) {
	s := New()
	s.AddReadinessCheck("postgres", time.Second, alwaysFail("down"))

	assert.False(t, s.IsReady(), "manual gate starts closed")

	s.SetReady(true)
	assert.True(t, s.IsReady(), "check has not failed its streak yet")

	ctx := context.Background()
	for range downAfter {
		s.readiness[0].run(ctx)
	}
	assert.False(t, s.IsReady(), "down readiness check blocks readiness")
}

func TestStartAndStop(t *testing.T) {
	s := New()
	s.AddLivenessCheck("db", time.Second, alwaysFail("gone"))
	s.SetReady(true)

	s.Start(context.Background(), time.Millisecond)
	defer s.Stop()

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Code == http.StatusServiceUnavailable
	}, 5*time.Second, 5*time.Millisecond, "ticker drives the check down")

	s.Stop()
	s.Stop() // idempotent
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}
