package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()

	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecordHelpers(t *testing.T) {
	InitRegistry()

	// None of the helpers may panic on registered collectors
	RecordFixtureProcessed()
	RecordPredictions("RATING", 3)
	RecordPredictionFailure()
	RecordRatingUpdate()
	RecordClonePairs(2)
	RecordValueSignal("1X2")
	RecordRunCompleted("predictions", time.Now())
	ObserveAnalogueSample(12)
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordFixtureProcessed()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "match_oracle_fixtures_processed_total")
}
