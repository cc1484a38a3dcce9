package evotri

import "sync"

// chunk is a contiguous slice of the invalid set, tagged with its offset so
// results map back to their individuals whatever the completion order.
type chunk struct {
	start   int
	genomes [][]int
	results chan<- chunkResult
}

type chunkResult struct {
	start     int
	fitnesses []float64
	err       error
}

// workerPool evaluates chunks on a fixed set of goroutines that live for a whole run.
type workerPool struct {
	eval EvalFunc
	jobs chan chunk
	wg   sync.WaitGroup
}

func newWorkerPool(workers int, eval EvalFunc) *workerPool {
	p := &workerPool{
		eval: eval,
		jobs: make(chan chunk),
	}
	p.wg.Add(workers)
	for w := 0; w < workers; w++ {
		go p.work()
	}
	return p
}

func (p *workerPool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		res := chunkResult{start: job.start, fitnesses: make([]float64, len(job.genomes))}
		for i, g := range job.genomes {
			fit, err := p.eval(g)
			if err != nil && res.err == nil {
				res.err = err
			}
			res.fitnesses[i] = fit
		}
		job.results <- res
	}
}

// evaluate scores every genome, split in chunks of chunkSize. It blocks until all
// chunks are done and returns the error of the lowest failing chunk.
func (p *workerPool) evaluate(genomes [][]int, chunkSize int) ([]float64, error) {
	chunkSize = Max(chunkSize, 1)
	n := (len(genomes) + chunkSize - 1) / chunkSize
	results := make(chan chunkResult, n)

	go func() {
		for start := 0; start < len(genomes); start += chunkSize {
			end := Min(start+chunkSize, len(genomes))
			p.jobs <- chunk{start: start, genomes: genomes[start:end], results: results}
		}
	}()

	fitnesses := make([]float64, len(genomes))
	var (
		err      error
		errStart = len(genomes)
	)
	for i := 0; i < n; i++ {
		res := <-results
		if res.err != nil && res.start < errStart {
			err, errStart = res.err, res.start
		}
		copy(fitnesses[res.start:], res.fitnesses)
	}
	return fitnesses, err
}

// close stops the workers once they drain their current chunk.
func (p *workerPool) close() {
	close(p.jobs)
	p.wg.Wait()
}
