package field

import (
	"sync"

	"github.com/cwbudde/algo-dic/dic/correlate"
	"github.com/cwbudde/algo-dic/dic/grid"
	"github.com/cwbudde/algo-dic/dic/track"
	"github.com/cwbudde/algo-dic/frame"
)

// task identifies one grid node.
type task struct {
	k        int // flat node index
	row, col int // window center
}

type outcome struct {
	k   int
	res track.Result
}

// dispatch runs every grid node on a bounded pool and stores the results in f
// by node index. It returns the number of workers used.
func (p *Processor) dispatch(ref, obj *frame.Image, g grid.Grid, f *Field) int {
	n := g.Len()
	if n == 0 {
		return 0
	}
	workers := min(p.cfg.Workers, n)

	jobs := make(chan task)
	out := make(chan outcome, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			p.worker(ref, obj, jobs, out)
		}()
	}

	go func() {
		for k := 0; k < n; k++ {
			i, j := g.Node(k)
			jobs <- task{k: k, row: g.Rows[i], col: g.Cols[j]}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	for o := range out {
		f.set(o.k, o.res)
	}
	return workers
}

// worker borrows one correlator from the processor pool for its lifetime.
func (p *Processor) worker(ref, obj *frame.Image, jobs <-chan task, out chan<- outcome) {
	c, err := p.pool.Get(p.cfg.WindowSize)
	if err != nil {
		p.log.Warn("field: correlator unavailable", "window", p.cfg.WindowSize, "err", err)
	} else {
		defer p.pool.Put(c)
	}
	for t := range jobs {
		if c == nil {
			out <- outcome{k: t.k, res: track.Failure(track.StatusFault)}
			continue
		}
		out <- outcome{k: t.k, res: p.run(c, ref, obj, t)}
	}
}

// run executes the pipeline for one node. Errors and panics become a fault
// result.
func (p *Processor) run(c *correlate.Correlator, ref, obj *frame.Image, t task) (res track.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("field: window task panicked", "row", t.row, "col", t.col, "panic", r)
			res = track.Failure(track.StatusFault)
		}
	}()

	res, err := track.Node(c, ref, obj, t.row, t.col, p.params)
	if err != nil {
		p.log.Warn("field: window task failed", "row", t.row, "col", t.col, "err", err)
		return track.Failure(track.StatusFault)
	}
	return res
}
