package correlate

import "sync"

// Pool provides sync.Pool-based Correlator reuse for callers that correlate
// windows outside a dedicated worker. Pools are keyed by window size.
type Pool struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{pools: make(map[int]*sync.Pool)}
}

// Get returns a correlator for m×m windows. Callers must return it via Put
// when done.
func (p *Pool) Get(m int) (*Correlator, error) {
	sp := p.sizePool(m)
	if c, ok := sp.Get().(*Correlator); ok {
		return c, nil
	}
	return New(m)
}

// Put returns a correlator to the pool. The caller must not use it afterwards.
func (p *Pool) Put(c *Correlator) {
	if c == nil {
		return
	}
	p.sizePool(c.m).Put(c)
}

func (p *Pool) sizePool(m int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.pools[m]
	if !ok {
		sp = &sync.Pool{}
		p.pools[m] = sp
	}
	return sp
}
