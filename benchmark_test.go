// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringidx_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"code.hybscloud.com/ringidx"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Single-Goroutine Baselines
// =============================================================================

func BenchmarkManager_SingleOp(b *testing.B) {
	m := ringidx.NewManager(1024)

	b.ResetTimer()
	for range b.N {
		gen, idx, _ := m.AcquirePushIndex()
		m.ReleasePushIndex(gen, idx)
		gen, idx, _ = m.AcquirePopIndex()
		m.ReleasePopIndex(gen, idx)
	}
}

func BenchmarkFixedQueue_SingleOp(b *testing.B) {
	q := ringidx.NewFixedQueue[int](1024)

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkManager_Len(b *testing.B) {
	m := ringidx.NewManager(1000)
	for range 500 {
		gen, idx, _ := m.AcquirePushIndex()
		m.ReleasePushIndex(gen, idx)
	}

	b.ResetTimer()
	for range b.N {
		_ = m.Len()
	}
}

// =============================================================================
// Parallel
// =============================================================================

func BenchmarkManager_Parallel(b *testing.B) {
	for _, capacity := range []int{1, 64, 4096} {
		b.Run(fmt.Sprintf("cap=%d", capacity), func(b *testing.B) {
			m := ringidx.NewManager(capacity)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				sw := spin.Wait{}
				for pb.Next() {
					gen, idx, err := m.AcquirePushIndex()
					for err != nil {
						sw.Once()
						gen, idx, err = m.AcquirePushIndex()
					}
					sw.Reset()
					m.ReleasePushIndex(gen, idx)

					gen, idx, err = m.AcquirePopIndex()
					for err != nil {
						sw.Once()
						gen, idx, err = m.AcquirePopIndex()
					}
					sw.Reset()
					m.ReleasePopIndex(gen, idx)
				}
			})
		})
	}
}

func BenchmarkFixedQueue_ProducerConsumer(b *testing.B) {
	q := ringidx.NewFixedQueue[int](4096)
	numProducers := runtime.GOMAXPROCS(0) / 2
	numConsumers := runtime.GOMAXPROCS(0) / 2
	if numProducers < 1 {
		numProducers = 1
	}
	if numConsumers < 1 {
		numConsumers = 1
	}

	opsPerProducer := b.N / numProducers
	if opsPerProducer < 1 {
		opsPerProducer = 1
	}

	b.ResetTimer()

	var producerWg sync.WaitGroup
	var consumerWg sync.WaitGroup

	// Consumers (start first to be ready for producers)
	done := make(chan struct{})
	for range numConsumers {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			sw := spin.Wait{}
			for {
				select {
				case <-done:
					for {
						if _, err := q.Dequeue(); err != nil {
							return
						}
					}
				default:
					if _, err := q.Dequeue(); err == nil {
						sw.Reset()
					} else {
						sw.Once()
					}
				}
			}
		}()
	}

	for p := range numProducers {
		producerWg.Add(1)
		go func(id int) {
			defer producerWg.Done()
			sw := spin.Wait{}
			base := id * opsPerProducer
			for i := range opsPerProducer {
				v := base + i
				for q.Enqueue(&v) != nil {
					sw.Once()
				}
				sw.Reset()
			}
		}(p)
	}

	producerWg.Wait()
	close(done)
	consumerWg.Wait()
}
