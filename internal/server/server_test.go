package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/database"
	"github.com/pageza/feedback/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:      config.Test,
		ServerHost:       "localhost",
		ServerPort:       "8080",
		SessionSecret:    "0123456789abcdef0123456789abcdef",
		ChallengeTTL:     time.Hour,
		FeedbackPerPage:  30,
		SubmitRateLimit:  10,
		SubmitRateWindow: time.Minute,
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	srv := New(testConfig(), db, nil)
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestHealthReportsClosedDatabase(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	srv := New(testConfig(), db, nil)
	require.NoError(t, database.Close(db))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewWithRedis(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	client := testhelpers.SetupTestRedis(t)

	srv := New(testConfig(), db, client)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
}
