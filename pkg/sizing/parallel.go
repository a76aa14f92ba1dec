package sizing

import "sync"

// Item pairs a distribution name with its manifest file list for batch sizing.
type Item struct {
	Name  string
	Files []string
}

// ParallelSizes computes DistributionSize for many distributions across a
// fixed-size worker pool and returns a name-to-size mapping.
//
// Each item gets its own InodeSet, so hardlinks shared between two
// distributions are counted by both - each package owns the file from its
// own accounting perspective. A panicking task contributes an empty
// SizeInfo rather than aborting the batch.
func ParallelSizes(items []Item, opts Options, workers int) map[string]SizeInfo {
	if workers <= 0 {
		workers = 4
	}

	type result struct {
		name string
		info SizeInfo
	}

	jobs := make(chan Item)
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				results <- result{name: item.Name, info: sizeItem(item, opts)}
			}
		}()
	}

	go func() {
		for _, item := range items {
			jobs <- item
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	out := make(map[string]SizeInfo, len(items))
	for r := range results {
		out[r.name] = r.info
	}
	return out
}

func sizeItem(item Item, opts Options) (info SizeInfo) {
	defer func() {
		if recover() != nil {
			info = SizeInfo{}
		}
	}()
	return DistributionSize(item.Files, opts)
}
