// Package parallel runs independent jobs on worker goroutines.
//
// Graphs are single-threaded, so parallelism in this module is always across
// graphs: each job builds and owns its own autograd.Graph.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Upper bound on concurrent jobs.
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// For executes f(i) for i in [0, n), at most cfg.NumWorkers at a time.
// Falls back to sequential execution if parallelism is disabled.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(cfg.NumWorkers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Map runs f for every i in [0, n) and collects the results in order. All
// jobs run to completion; the error of the lowest failing index is returned.
func Map[T any](n int, f func(i int) (T, error), cfg Config) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)
	For(n, func(i int) {
		results[i], errs[i] = f(i)
	}, cfg)

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
