package utils

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/atomic"
	"go.viam.com/test"
)

func TestGroupWorkParallel(t *testing.T) {
	original := ParallelFactor
	defer func() { ParallelFactor = original }()

	for _, tc := range []struct {
		factor, total int
	}{
		{4, 1000},
		{4, 1003},
		{8, 3},
		{1, 10},
		{4, 0},
	} {
		ParallelFactor = tc.factor

		var mu sync.Mutex
		seen := make([]int, tc.total)
		groups := map[int]bool{}
		err := GroupWorkParallel(context.Background(), tc.total, func(groupNum, from, to int) {
			mu.Lock()
			defer mu.Unlock()
			groups[groupNum] = true
			for i := from; i < to; i++ {
				seen[i]++
			}
		})
		test.That(t, err, test.ShouldBeNil)
		for _, count := range seen {
			test.That(t, count, test.ShouldEqual, 1)
		}
		test.That(t, len(groups), test.ShouldBeLessThanOrEqualTo, tc.factor)
	}
}

func TestGroupWorkParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	err := GroupWorkParallel(ctx, 100, func(int, int, int) { calls.Inc() })
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, calls.Load(), test.ShouldEqual, int64(0))
}

func TestGroupWorkParallelPanic(t *testing.T) {
	original := ParallelFactor
	defer func() { ParallelFactor = original }()
	ParallelFactor = 2

	err := GroupWorkParallel(context.Background(), 10, func(groupNum, from, to int) {
		if groupNum == 1 {
			panic("bad group")
		}
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad group")
}
