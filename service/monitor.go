package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rflgf/mahjong-cli/common/log"
)

// LoadInfo 一次采样的负载信息
type LoadInfo struct {
	CPUUsage      float64   `json:"cpuUsage"` // 0-100
	MemUsage      float64   `json:"memUsage"` // 0-100，系统内存
	Goroutines    int       `json:"goroutines"`
	Evaluations   int64     `json:"evaluations"`
	CacheHitRatio float64   `json:"cacheHitRatio"`
	Load          float64   `json:"load"`
	SampledAt     time.Time `json:"sampledAt"`
}

// CalculateLoad 综合负载评分，权重：CPU 50%、内存 30%、协程数 20%
// 返回值越小表示负载越低
func (li *LoadInfo) CalculateLoad() float64 {
	normalizedGoroutines := float64(li.Goroutines) / 10000.0
	if normalizedGoroutines > 1.0 {
		normalizedGoroutines = 1.0
	}
	return li.CPUUsage/100.0*0.5 + li.MemUsage/100.0*0.3 + normalizedGoroutines*0.2
}

// LoadReporter 负载上报目标，由 discovery.Registry 实现
type LoadReporter interface {
	UpdateLoad(load float64) error
}

// Monitor 定期采集负载信息，供 /health 读取，并可上报给注册中心
type Monitor struct {
	scorer         *Scorer
	reporter       LoadReporter
	updateInterval time.Duration
	latest         atomic.Pointer[LoadInfo]
	stopCh         chan struct{}
	stopOnce       sync.Once
}

func NewMonitor(scorer *Scorer, updateInterval time.Duration) *Monitor {
	return &Monitor{
		scorer:         scorer,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// SetReporter 需在 Start 之前调用
func (m *Monitor) SetReporter(r LoadReporter) {
	m.reporter = r
}

// Start 阻塞运行，直到 ctx 结束或调用 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	// 立即执行一次
	m.Collect()

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.Collect()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Latest 最近一次采样，尚未采样时为 nil
func (m *Monitor) Latest() *LoadInfo {
	return m.latest.Load()
}

// Collect 采样一次并保存
func (m *Monitor) Collect() *LoadInfo {
	info := &LoadInfo{
		CPUUsage:   m.getCPUUsage(),
		MemUsage:   m.getMemoryUsage(),
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  time.Now(),
	}
	if m.scorer != nil {
		info.Evaluations = m.scorer.Evaluations()
		info.CacheHitRatio, _ = m.scorer.CacheHitRatio()
	}
	info.Load = info.CalculateLoad()
	m.latest.Store(info)
	log.Debug("Monitor 采样: Load=%.2f, CPU=%.2f%%, Mem=%.2f%%, Goroutines=%d, Evaluations=%d",
		info.Load, info.CPUUsage, info.MemUsage, info.Goroutines, info.Evaluations)

	if m.reporter != nil {
		if err := m.reporter.UpdateLoad(info.Load); err != nil {
			log.Error("Monitor 上报负载信息失败: %v", err)
		}
	}
	return info
}

// getCPUUsage 距上次调用以来的整机 CPU 使用率，首次调用以开机为起点
func (m *Monitor) getCPUUsage() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		log.Warn("获取 CPU 使用率失败: %v", err)
		return 0
	}
	return clampPercent(percents[0])
}

func (m *Monitor) getMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn("获取内存使用率失败: %v", err)
		return 0
	}
	return clampPercent(vm.UsedPercent)
}

func clampPercent(v float64) float64 {
	if v > 100.0 {
		return 100.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}
