package perf_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/north-cloud/richlog/perf"
)

func TestTracker_RecordAndStats(t *testing.T) {
	t.Parallel()

	tr := perf.NewTracker()
	tr.Record("emit", 10*time.Millisecond)
	tr.Record("emit", 30*time.Millisecond)
	tr.Record("build", 1*time.Millisecond)

	stats := tr.Stats()

	emit := stats["emit"]
	if emit.Count != 2 {
		t.Errorf("emit.Count = %d, want 2", emit.Count)
	}
	if emit.Min != 10*time.Millisecond || emit.Max != 30*time.Millisecond {
		t.Errorf("emit min/max = %v/%v", emit.Min, emit.Max)
	}
	if emit.Avg() != 20*time.Millisecond {
		t.Errorf("emit.Avg = %v, want 20ms", emit.Avg())
	}

	if stats["build"].Count != 1 {
		t.Errorf("build.Count = %d, want 1", stats["build"].Count)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	t.Parallel()

	tr := perf.NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record("emit", time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := tr.Stats()["emit"].Count; got != 800 {
		t.Errorf("Count = %d, want 800", got)
	}
}

func TestTracker_Reset(t *testing.T) {
	t.Parallel()

	tr := perf.NewTracker()
	tr.Record("emit", time.Millisecond)
	tr.Reset()
	if len(tr.Stats()) != 0 {
		t.Error("Stats after Reset should be empty")
	}
}

func TestOpStats_AvgEmpty(t *testing.T) {
	t.Parallel()

	var s perf.OpStats
	if s.Avg() != 0 {
		t.Errorf("Avg of empty stats = %v, want 0", s.Avg())
	}
}

func TestCollector(t *testing.T) {
	t.Parallel()

	tr := perf.NewTracker()
	tr.Record("emit", 2*time.Second)
	tr.Record("emit", 1*time.Second)

	reg := prometheus.NewRegistry()
	if err := reg.Register(perf.NewCollector(tr)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	expected := `
# HELP richlog_operation_total Number of logging operations performed, by operation.
# TYPE richlog_operation_total counter
richlog_operation_total{operation="emit"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "richlog_operation_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}
