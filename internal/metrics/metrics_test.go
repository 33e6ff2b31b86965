package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCompose(t *testing.T) {
	ComposeSessionsTotal.Reset()
	ComposeDuration.Reset()

	RecordCompose("success", "1080p", "neon", 3, 12.5)
	RecordCompose("engine_failure", "4k", "retro", 8, 3.1)
	RecordCompose("success", "1080p", "neon", 1, 4.0)

	if got := testutil.ToFloat64(ComposeSessionsTotal.WithLabelValues("success")); got != 2.0 {
		t.Errorf("Expected success counter to be 2.0, got %f", got)
	}
	if got := testutil.ToFloat64(ComposeSessionsTotal.WithLabelValues("engine_failure")); got != 1.0 {
		t.Errorf("Expected engine_failure counter to be 1.0, got %f", got)
	}
	if got := testutil.CollectAndCount(ComposeDuration); got != 2 {
		t.Errorf("Expected 2 duration series, got %d", got)
	}
}

func TestRecordMusicFetch(t *testing.T) {
	MusicFetchTotal.Reset()

	RecordMusicFetch(true)
	RecordMusicFetch(false)
	RecordMusicFetch(false)

	if got := testutil.ToFloat64(MusicFetchTotal.WithLabelValues("success")); got != 1.0 {
		t.Errorf("Expected success counter to be 1.0, got %f", got)
	}
	if got := testutil.ToFloat64(MusicFetchTotal.WithLabelValues("failure")); got != 2.0 {
		t.Errorf("Expected failure counter to be 2.0, got %f", got)
	}
}

func TestRecordEngineLoad(t *testing.T) {
	EngineLoadsTotal.Reset()

	RecordEngineLoad(false)
	RecordEngineLoad(true)

	if got := testutil.ToFloat64(EngineLoadsTotal.WithLabelValues("success")); got != 1.0 {
		t.Errorf("Expected success counter to be 1.0, got %f", got)
	}
}

func TestRecordCleanupWarning(t *testing.T) {
	before := testutil.ToFloat64(CleanupWarningsTotal)
	RecordCleanupWarning()
	if got := testutil.ToFloat64(CleanupWarningsTotal); got != before+1 {
		t.Errorf("Expected cleanup warnings to grow by 1, got %f -> %f", before, got)
	}
}

func TestRecordRenderJob(t *testing.T) {
	RenderJobsTotal.Reset()

	RecordRenderJob("COMPLETED")
	RecordRenderJob("FAILED")
	RecordRenderJob("COMPLETED")

	if got := testutil.ToFloat64(RenderJobsTotal.WithLabelValues("COMPLETED")); got != 2.0 {
		t.Errorf("Expected COMPLETED counter to be 2.0, got %f", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/videos", "200")

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/videos", "200")); got != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", got)
	}
}
