package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderImplementsInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	// Must not panic.
	r.ObserveStageDuration("typeset", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("typeset", ResultSuccess)
	r.IncBuildOutcome("success")
	r.ObservePassCount(3)
	r.AddDiagnostics("typeset", 1, 2)
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncStageResult("typeset", ResultWarning)
	pr.AddDiagnostics("typeset", 2, 3)
	pr.ObservePassCount(3)
	pr.ObserveStageDuration("typeset", 250*time.Millisecond)
	pr.ObserveBuildDuration(time.Second)
	pr.IncBuildOutcome("warning")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["texbuild_stage_results_total"])
	assert.True(t, names["texbuild_diagnostics_total"])
	assert.True(t, names["texbuild_typeset_passes"])
}
