package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestBuilderMetrics_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBuilderMetrics(reg)

	m.RecordRun("success", 2*time.Second)
	m.RecordRun("failure", time.Second)
	m.RecordRun("success", time.Second)

	families := gather(t, reg)
	runs := families["builder_runs_total"]
	require.NotNil(t, runs)

	counts := map[string]float64{}
	for _, metric := range runs.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "status" {
				counts[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), counts["success"])
	assert.Equal(t, float64(1), counts["failure"])

	duration := families["builder_run_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, uint64(3), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestBuilderMetrics_RecordSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBuilderMetrics(reg)

	m.RecordSourceWarning("rival-news")
	m.RecordSnapshot(42)

	families := gather(t, reg)

	items := families["builder_items_emitted"]
	require.NotNil(t, items)
	assert.Equal(t, float64(42), items.GetMetric()[0].GetGauge().GetValue())

	warnings := families["builder_source_warnings_total"]
	require.NotNil(t, warnings)
	assert.Equal(t, float64(1), warnings.GetMetric()[0].GetCounter().GetValue())

	last := families["builder_last_success_timestamp"]
	require.NotNil(t, last)
	assert.InDelta(t, time.Now().Unix(), last.GetMetric()[0].GetGauge().GetValue(), 5)
}
