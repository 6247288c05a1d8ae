package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/models"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("PORT", "")
	c, err := config.LoadWithDefaults("testdata/missing.yaml")
	require.NoError(t, err)
	require.NoError(t, config.Validate(c))
	return c
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildAppDefaults(t *testing.T) {
	app, err := buildApp(defaultConfig(t), quietLogger())
	require.NoError(t, err)
	defer app.close()

	assert.NotNil(t, app.cached, "cache is enabled by default")
	assert.Nil(t, app.scheduler, "warm-up is off without a cron expression")
	assert.Equal(t, "thesportsdb", app.fixtures.ProviderName())

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestBuildAppWithWarmup(t *testing.T) {
	c := defaultConfig(t)
	c.Scheduler.WarmupCron = "*/15 * * * *"

	app, err := buildApp(c, quietLogger())
	require.NoError(t, err)
	defer app.close()
	assert.NotNil(t, app.scheduler)
}

func TestBuildAppWithoutCache(t *testing.T) {
	c := defaultConfig(t)
	c.Cache.Enabled = false

	app, err := buildApp(c, quietLogger())
	require.NoError(t, err)
	defer app.close()
	assert.Nil(t, app.cached)
}

func TestBuildAppUnknownProvider(t *testing.T) {
	c := defaultConfig(t)
	c.Provider.Name = "espn"

	_, err := buildApp(c, quietLogger())
	assert.Error(t, err)
}

func TestWriteFixtureTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFixtureTable(&buf, []models.Fixture{
		{ID: "9", Date: "2026-10-25", Time: "14:00:00", Home: "Arsenal", Away: "Chelsea"},
	}))
	assert.Contains(t, buf.String(), "Arsenal vs Chelsea")
	assert.Contains(t, buf.String(), "DATE")

	buf.Reset()
	require.NoError(t, writeFixtureTable(&buf, nil))
	assert.Equal(t, "No upcoming fixtures\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "lp2m dev")
}
