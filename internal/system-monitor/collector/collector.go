// Package collector samples memory, swap, uptime and CPU details with
// gopsutil.
package collector

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one sample of the system
type Stats struct {
	RAMTotalKB  uint64
	RAMUsedKB   uint64
	RAMPercent  int
	SwapTotalMB float64
	SwapUsedMB  float64
	SwapPercent int
	Uptime      time.Duration
	CPUMHz      int
	Cores       int
	Model       string
	Chip        string
	Timestamp   time.Time
}

// Collector gathers Stats. The gopsutil calls are fields so tests can
// replace them.
type Collector struct {
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory    func(ctx context.Context) (*mem.SwapMemoryStat, error)
	uptime        func(ctx context.Context) (uint64, error)
	cpuInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	cpuCounts     func(ctx context.Context, logical bool) (int, error)
	now           func() time.Time
}

func New() *Collector {
	return &Collector{
		virtualMemory: mem.VirtualMemoryWithContext,
		swapMemory:    mem.SwapMemoryWithContext,
		uptime:        host.UptimeWithContext,
		cpuInfo:       cpu.InfoWithContext,
		cpuCounts:     cpu.CountsWithContext,
		now:           time.Now,
	}
}

// Collect samples the system. Memory is required; swap, uptime and CPU
// details are filled in when available.
func (c *Collector) Collect(ctx context.Context) (Stats, error) {
	s := Stats{
		Chip:      runtime.GOOS + "/" + runtime.GOARCH,
		Timestamp: c.now(),
	}

	vm, err := c.virtualMemory(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to read memory: %w", err)
	}
	s.RAMTotalKB = vm.Total / 1024
	s.RAMUsedKB = (vm.Total - vm.Available) / 1024
	s.RAMPercent = UsedPercent(vm.Available, vm.Total)

	if sw, err := c.swapMemory(ctx); err == nil && sw.Total > 0 {
		s.SwapTotalMB = float64(sw.Total) / (1024 * 1024)
		s.SwapUsedMB = float64(sw.Total-sw.Free) / (1024 * 1024)
		s.SwapPercent = UsedPercent(sw.Free, sw.Total)
	}

	if up, err := c.uptime(ctx); err == nil {
		s.Uptime = time.Duration(up) * time.Second
	}

	if infos, err := c.cpuInfo(ctx); err == nil && len(infos) > 0 {
		s.CPUMHz = int(infos[0].Mhz)
		s.Model = strings.TrimSpace(infos[0].ModelName)
	}

	if n, err := c.cpuCounts(ctx, true); err == nil {
		s.Cores = n
	}

	return s, nil
}

// UsedPercent is 100 - free*100/total in integer arithmetic
func UsedPercent(free, total uint64) int {
	if total == 0 {
		return 0
	}
	if free > total {
		free = total
	}
	return 100 - int(free*100/total)
}

func FormatRAM(usedKB, totalKB uint64) string {
	return fmt.Sprintf("%d / %d KB", usedKB, totalKB)
}

func FormatSwap(usedMB, totalMB float64) string {
	return fmt.Sprintf("%.1f / %.1f MB", usedMB, totalMB)
}

// FormatUptime renders HH:MM:SS; hours are not wrapped at 24
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

func FormatFrequency(mhz int) string {
	return fmt.Sprintf("%d MHz", mhz)
}
