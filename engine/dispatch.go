package engine

import (
	"sync"

	"github.com/sheikhrachel/torus-life/model"
)

// Frame is one published generation
type Frame struct {
	Generation int
	Cells      model.Snapshot
}

// ChannelObserver feeds frames to a consumer on another goroutine without
// ever blocking the tick. When the consumer falls behind, the oldest queued
// frame is dropped so the newest is always delivered.
func ChannelObserver(buffer int) (Observer, <-chan Frame) {
	if buffer < 1 {
		buffer = 1
	}
	var (
		mu     sync.Mutex
		frames = make(chan Frame, buffer)
	)
	observer := func(generation int, cells model.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		f := Frame{Generation: generation, Cells: cells}
		for {
			select {
			case frames <- f:
				return
			default:
			}
			select {
			case <-frames:
			default:
			}
		}
	}
	return observer, frames
}
