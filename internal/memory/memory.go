// Package memory supplies the memory-pressure signal used to tighten tab
// eviction. Readings are plain numbers; interpretation is left to callers.
package memory

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// Signal reports current usage against a usage limit.
type Signal interface {
	Usage() (current, limit uint64)
}

// Ratio returns current/limit, or 0 when no limit is known.
func Ratio(s Signal) float64 {
	if s == nil {
		return 0
	}
	current, limit := s.Usage()
	if limit == 0 {
		return 0
	}
	return float64(current) / float64(limit)
}

// Static always reports the same figures.
type Static struct {
	Current uint64
	Limit   uint64
}

func (s Static) Usage() (uint64, uint64) {
	return s.Current, s.Limit
}

// Source reads a fresh sample, possibly blocking on the OS.
type Source interface {
	Read(ctx context.Context) (current, limit uint64, err error)
}

var virtualMemory = mem.VirtualMemoryWithContext

// System samples machine-wide memory via gopsutil.
type System struct{}

func (System) Read(ctx context.Context) (uint64, uint64, error) {
	vm, err := virtualMemory(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read virtual memory: %w", err)
	}
	return vm.Used, vm.Total, nil
}

// Runtime samples the Go heap against the runtime's soft memory limit,
// falling back to total system memory when no limit is set.
type Runtime struct{}

func (Runtime) Read(ctx context.Context) (uint64, uint64, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	limit := debug.SetMemoryLimit(-1)
	if limit > 0 && limit < 1<<62 {
		return stats.HeapInuse, uint64(limit), nil
	}
	vm, err := virtualMemory(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read virtual memory: %w", err)
	}
	return stats.HeapInuse, vm.Total, nil
}

// SourceByName maps a config value to a Source.
func SourceByName(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "system":
		return System{}, nil
	case "runtime", "go":
		return Runtime{}, nil
	}
	return nil, fmt.Errorf("unknown memory source %q", name)
}

// Sampler caches the last reading of a Source so Usage never blocks.
type Sampler struct {
	source Source

	mu      sync.RWMutex
	current uint64
	limit   uint64
	at      time.Time
	err     error
}

func NewSampler(source Source) *Sampler {
	return &Sampler{source: source}
}

// Refresh reads the source and stores the result. On error the previous
// reading is kept.
func (s *Sampler) Refresh(ctx context.Context) (Static, error) {
	if s.source == nil {
		return Static{}, fmt.Errorf("memory sampler has no source")
	}
	current, limit, err := s.source.Read(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err == nil {
		s.current, s.limit, s.at = current, limit, time.Now()
	}
	return Static{Current: s.current, Limit: s.limit}, err
}

func (s *Sampler) Usage() (uint64, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.limit
}

// LastSample returns when the cached reading was taken and the last error.
func (s *Sampler) LastSample() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.at, s.err
}
