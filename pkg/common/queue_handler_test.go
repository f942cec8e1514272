package common

import (
	"sync"
	"testing"
	"time"
)

func TestQueueHandlerProcessesInChunks(t *testing.T) {
	var mu sync.Mutex
	batches := [][]int{}
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)
	q.Add(1, 2, 3)
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 2 || len(batches[0]) != 2 || batches[1][0] != 3 {
		t.Errorf("Expected [[1 2] [3]], got %v", batches)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue after close, got %d", q.Len())
	}
}
