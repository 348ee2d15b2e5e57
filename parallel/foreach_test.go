package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForEachCoversEveryIndex(t *testing.T) {
	const n = 100
	hits := make([]int32, n)
	ForEach(n, 7, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d ran %d times", i, h)
		}
	}
}

func TestForEachBoundsConcurrency(t *testing.T) {
	const limit = 3
	var live, peak int32
	ForEach(64, limit, func(int) {
		n := atomic.AddInt32(&live, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&live, -1)
	})
	if peak > limit {
		t.Fatalf("observed %d concurrent bodies, limit was %d", peak, limit)
	}
}

func TestForEachZeroLength(t *testing.T) {
	ran := false
	ForEach(0, 4, func(int) { ran = true })
	if ran {
		t.Fatal("body ran for empty range")
	}
}

func TestForEachClampsLimit(t *testing.T) {
	var count int32
	ForEach(5, 0, func(int) { atomic.AddInt32(&count, 1) })
	if count != 5 {
		t.Fatalf("ran %d of 5 iterations", count)
	}
}
