package service

import (
	"context"
	"testing"
	"time"
)

func TestCalculateLoad(t *testing.T) {
	tests := []struct {
		name string
		info LoadInfo
		want float64
	}{
		{"idle", LoadInfo{}, 0},
		{"full", LoadInfo{CPUUsage: 100, MemUsage: 100, Goroutines: 20000}, 1},
		{"half cpu", LoadInfo{CPUUsage: 50}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.CalculateLoad(); got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMonitorCollect(t *testing.T) {
	s, err := NewScorer(testConfig(t))
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	defer s.Close()

	m := NewMonitor(s, time.Hour)
	if m.Latest() != nil {
		t.Fatalf("expected no sample before Collect")
	}
	info := m.Collect()
	if m.Latest() != info {
		t.Fatalf("Latest expected the collected sample")
	}
	if info.Goroutines <= 0 || info.CPUUsage < 0 || info.CPUUsage > 100 || info.MemUsage < 0 || info.MemUsage > 100 {
		t.Fatalf("sample out of range: %+v", info)
	}
}

func TestMonitorStop(t *testing.T) {
	m := NewMonitor(nil, time.Hour)
	done := make(chan struct{})
	go func() {
		m.Start(context.Background())
		close(done)
	}()
	m.Stop()
	m.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("monitor did not stop")
	}
	if m.Latest() == nil {
		t.Fatalf("Start expected an immediate sample")
	}
}

type loadRecorder struct {
	loads []float64
}

func (r *loadRecorder) UpdateLoad(load float64) error {
	r.loads = append(r.loads, load)
	return nil
}

func TestMonitorReportsLoad(t *testing.T) {
	rec := &loadRecorder{}
	m := NewMonitor(nil, time.Hour)
	m.SetReporter(rec)
	info := m.Collect()
	if len(rec.loads) != 1 || rec.loads[0] != info.Load {
		t.Fatalf("expected load %v reported once, got %v", info.Load, rec.loads)
	}
}
