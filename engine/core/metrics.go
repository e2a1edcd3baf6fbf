package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

type kernelTimes struct {
	counter uint8
	filled  uint8
	samples [AVG_COUNT]float64
	total   uint64
}

// DispatchMetrics keeps a rolling average of the time spent in each compute
// kernel over the last AVG_COUNT dispatches, plus a total dispatch count.
type DispatchMetrics struct {
	mutex   sync.Mutex
	kernels map[string]*kernelTimes
}

func NewDispatchMetrics() *DispatchMetrics {
	return &DispatchMetrics{
		kernels: make(map[string]*kernelTimes),
	}
}

func (m *DispatchMetrics) Record(kernel string, elapsed time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	kt, ok := m.kernels[kernel]
	if !ok {
		kt = &kernelTimes{}
		m.kernels[kernel] = kt
	}
	kt.samples[kt.counter] = float64(elapsed) / float64(time.Millisecond)
	kt.counter++
	kt.counter %= AVG_COUNT
	if kt.filled < AVG_COUNT {
		kt.filled++
	}
	kt.total++
}

// AverageMS returns the average dispatch time in milliseconds of the given kernel.
func (m *DispatchMetrics) AverageMS(kernel string) float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	kt, ok := m.kernels[kernel]
	if !ok || kt.filled == 0 {
		return 0
	}
	sum := 0.0
	for i := uint8(0); i < kt.filled; i++ {
		sum += kt.samples[i]
	}
	return sum / float64(kt.filled)
}

func (m *DispatchMetrics) Count(kernel string) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if kt, ok := m.kernels[kernel]; ok {
		return kt.total
	}
	return 0
}
