package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestMapPreservesOrder verifies that results land in input order even when
// later items finish first
func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	for _, workers := range []int{1, 2, 4, 16, 100} {
		got := Map(items, workers, func(i int, v int) int {
			// make early items slow so completion order is reversed
			time.Sleep(time.Duration(len(items)-i) * 10 * time.Microsecond)
			return v * v
		})

		want := make([]int, len(items))
		for i, v := range items {
			want[i] = v * v
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d: unexpected results (-want +got):\n%s", workers, diff)
		}
	}
}

// TestMapBoundsConcurrency verifies that no more than workers tasks run at once
func TestMapBoundsConcurrency(t *testing.T) {
	const workers = 3
	var running, peak int32

	items := make([]struct{}, 30)
	Map(items, workers, func(i int, _ struct{}) int {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&running, -1)
		return i
	})

	if peak > workers {
		t.Errorf("Expected at most %d concurrent tasks, observed %d", workers, peak)
	}
}

// TestMapSequentialWithOneWorker verifies that a single worker visits items in order
func TestMapSequentialWithOneWorker(t *testing.T) {
	var visited []int
	Map([]string{"a", "b", "c", "d"}, 1, func(i int, _ string) struct{} {
		visited = append(visited, i)
		return struct{}{}
	})

	if diff := cmp.Diff([]int{0, 1, 2, 3}, visited); diff != "" {
		t.Errorf("Unexpected visit order (-want +got):\n%s", diff)
	}
}

func TestMapEmptyAndInvalidWorkers(t *testing.T) {
	if got := Map([]int{}, 4, func(i, v int) int { return v }); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}

	got := Map([]int{1, 2, 3}, 0, func(i, v int) int { return v + 1 })
	if diff := cmp.Diff([]int{2, 3, 4}, got); diff != "" {
		t.Errorf("Unexpected results for workers=0 (-want +got):\n%s", diff)
	}
}

func TestMapErrReturnsError(t *testing.T) {
	boom := errors.New("boom")
	for _, workers := range []int{1, 4} {
		_, err := MapErr([]int{1, 2, 3, 4, 5}, workers, func(i, v int) (int, error) {
			if v == 3 {
				return 0, boom
			}
			return v, nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: expected boom error, got %v", workers, err)
		}
	}
}
