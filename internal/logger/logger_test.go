package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestEdgeLoggerAssessment(t *testing.T) {
	log, buf := setupTestLogger()
	edgeLogger := NewEdgeLogger(log)

	edgeLogger.LogAssessment("KC@BUF", "recommended", 6.4, 3.5, 2.9, "MODERATE")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "KC@BUF", logEntry["matchup"])
	assert.Equal(t, "edge", logEntry["component"])
	assert.Equal(t, "MODERATE", logEntry["classification"])
}

func TestEdgeLoggerSuppression(t *testing.T) {
	log, buf := setupTestLogger()
	edgeLogger := NewEdgeLogger(log)

	edgeLogger.LogSuppression("DAL@PHI", 11.2, 10.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "market_respect_suppression", logEntry["event_type"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestEdgeLoggerDataQualityWarning(t *testing.T) {
	log, buf := setupTestLogger()
	edgeLogger := NewEdgeLogger(log)

	edgeLogger.LogDataQualityWarning("injury_code", "turf toe unmapped", "questionable")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "data_quality", logEntry["event_type"])
	assert.Equal(t, "questionable", logEntry["fallback"])
}

func TestReplayLoggerGameSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	replayLogger := NewReplayLogger(log)

	replayLogger.LogGameSkipped("8a5c", "NYJ@MIA", "unknown team")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "game_skipped", logEntry["event_type"])
	assert.Equal(t, "replay", logEntry["component"])
}

func TestReplayLoggerWeekComplete(t *testing.T) {
	log, buf := setupTestLogger()
	replayLogger := NewReplayLogger(log)

	replayLogger.LogWeekComplete(2024, 7, 14, 0.64, 0.52)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(7), logEntry["week"])
	assert.Equal(t, float64(14), logEntry["games_processed"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	edgeLogger := NewEdgeLogger(log)

	edgeLogger.LogAssessment("KC@BUF", "no_edge", 2.1, 2.5, -0.4, "NO_PLAY")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkEdgeLoggerAssessment(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	edgeLogger := NewEdgeLogger(log)

	for i := 0; i < b.N; i++ {
		edgeLogger.LogAssessment("KC@BUF", "recommended", 6.4, 3.5, 2.9, "MODERATE")
	}
}
