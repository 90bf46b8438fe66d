package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	originalLogger := log.Logger
	originalStdout := os.Stdout

	defer func() {
		log.Logger = originalLogger
		os.Stdout = originalStdout
	}()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	InitLogger("info")

	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	log.Info().Msg("test message")
	log.Debug().Msg("hidden message")

	w.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)

	logStr := buf.String()
	assert.Contains(t, logStr, "time")
	assert.Contains(t, logStr, "test message")
	assert.NotContains(t, logStr, "hidden message")
}

func TestInitLogger_Levels(t *testing.T) {
	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "chatty", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			InitLogger(tt.level)
			assert.Equal(t, tt.want, log.Logger.GetLevel())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	originalLogger := log.Logger
	defer func() {
		log.Logger = originalLogger
	}()

	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	rr := httptest.NewRecorder()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTemporaryRedirect)
		w.Write([]byte("test response"))
	})

	handler := middleware.RequestID(RequestLogger(testHandler))
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "test response", rr.Body.String())

	logs := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, logs, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs[0], &entry))

	assert.Equal(t, "Request processed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/abc123", entry["uri"])
	assert.Equal(t, float64(307), entry["status"])
	assert.Equal(t, float64(13), entry["size"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Contains(t, entry, "duration")
}

func TestRequestLogger_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer

	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()
	log.Logger = zerolog.New(&buf)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, float64(200), entry["status"])
}
