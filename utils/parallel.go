package utils

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// GroupWorkFunc processes the work items in [from, to) for one group.
type GroupWorkFunc func(groupNum, from, to int)

// GroupWorkParallel splits totalSize work items into ParallelFactor contiguous groups and runs each
// group in its own goroutine. The last group also takes the remainder. It returns once every group
// is done, with the context's error if ctx was cancelled before the work started, or an error if a
// group panicked.
func GroupWorkParallel(ctx context.Context, totalSize int, groupWork GroupWorkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	numGroups := ParallelFactor
	if totalSize < numGroups {
		numGroups = max(totalSize, 1)
	}
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	var (
		wait     sync.WaitGroup
		panicMu  sync.Mutex
		panicked error
	)
	wait.Add(numGroups)
	for groupNum := range numGroups {
		from := groupSize * groupNum
		to := from + groupSize
		if groupNum == numGroups-1 {
			to += extra
		}
		goutils.PanicCapturingGoWithCallback(func() {
			groupWork(groupNum, from, to)
			wait.Done()
		}, func(err interface{}) {
			panicMu.Lock()
			panicked = multierr.Append(panicked, errors.Errorf("group %d panicked: %v", groupNum, err))
			panicMu.Unlock()
			wait.Done()
		})
	}
	wait.Wait()
	return panicked
}
