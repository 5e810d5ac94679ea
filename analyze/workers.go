package analyze

import "sync"

// runIndexed calls fn(worker, i) once for every i in [0, n), spread over
// at most the given number of workers. Worker identities are stable in
// [0, workers), so callers can hand per-worker state such as a filter
// bank to the closure. Results must go into index-addressed slots; with
// that discipline the output is independent of scheduling.
func runIndexed(workers, n int, fn func(worker, i int)) {
	if n <= 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(0, i)
		}
		return
	}

	idx := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := range idx {
				fn(worker, i)
			}
		}(w)
	}

	for i := 0; i < n; i++ {
		idx <- i
	}
	close(idx)
	wg.Wait()
}
