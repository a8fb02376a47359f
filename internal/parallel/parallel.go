package parallel

import (
	"runtime"
	"sync"
)

// serialThreshold keeps small loops on the calling goroutine. Minibatch
// tensors in a sweep are mostly a few hundred elements, where goroutine
// fan-out costs more than the loop itself.
const serialThreshold = 2048

func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n <= serialThreshold || workers <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
