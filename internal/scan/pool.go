package scan

import "sync"

// pool is a fixed set of workers probing directories.
// Jobs are handed over one at a time; the coordinator keeps any backlog.
type pool struct {
	jobs    chan Request
	results chan Result
	wg      sync.WaitGroup
}

func startPool(workers int, prober *Prober) *pool {
	p := &pool{
		jobs:    make(chan Request),
		results: make(chan Result, workers),
	}

	p.wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()

			for req := range p.jobs {
				p.results <- prober.Probe(req)
			}
		}()
	}

	return p
}

// stop releases the workers. Callers must have drained every submitted job.
func (p *pool) stop() {
	close(p.jobs)
	p.wg.Wait()
}
