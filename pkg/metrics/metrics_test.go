package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRoundTrip(t *testing.T) {
	require.NoError(t, InitMetrics(t.TempDir()))
	defer func() { require.NoError(t, Close()) }()

	start := time.Now().Unix() - 60

	SetGauge("test_gauge", 42)
	IncrCounter("test_counter", 1)
	IncrCounter("test_counter", 2)
	assert.EqualValues(t, 3, CounterValue("test_counter"))

	end := time.Now().Unix() + 60

	points, err := Select("test_gauge", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	assert.EqualValues(t, 42, points[len(points)-1].Value)

	points, err = Select("test_counter", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, points)
}

func TestMetricsNoopWhenClosed(t *testing.T) {
	// safe before Init and after Close
	SetGauge("orphan_gauge", 1)
	IncrCounter("orphan_counter", 1)
	assert.EqualValues(t, 1, CounterValue("orphan_counter"))

	points, err := Select("orphan_gauge", 0, time.Now().Unix())
	assert.NoError(t, err)
	assert.Empty(t, points)
	assert.NoError(t, Close())
}
