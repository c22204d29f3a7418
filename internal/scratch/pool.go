// Package scratch provides a pool of reusable numeric buffers for the
// intermediate images of a pipeline invocation.
//
// Buffers are grouped by element type and length. Every intermediate field
// of a frame is allocated at pass start and returned before the invocation
// ends; the pool exists to keep steady-state rendering allocation-free.
//
// Thread safety: all methods are safe for concurrent use, but a buffer
// must never be read after it has been returned to the pool.
package scratch

import (
	"errors"
	"sync"
)

// ErrInvalidSize is returned when a requested buffer length is not positive.
var ErrInvalidSize = errors.New("scratch: invalid buffer size")

// maxPerBucket limits how many buffers of each length are retained.
const maxPerBucket = 4

// Pool is a size-bucketed recycler for the three buffer element types the
// pipeline uses: float32 planes, uint16 packed fields and byte pixel rows.
type Pool struct {
	mu  sync.Mutex
	f32 map[int][][]float32
	u16 map[int][][]uint16
	b8  map[int][][]byte
}

// NewPool creates an empty buffer pool.
func NewPool() *Pool {
	return &Pool{
		f32: make(map[int][][]float32),
		u16: make(map[int][][]uint16),
		b8:  make(map[int][][]byte),
	}
}

// Float32 returns a zeroed float32 buffer of length n.
func (p *Pool) Float32(n int) ([]float32, error) {
	if n <= 0 {
		return nil, ErrInvalidSize
	}
	p.mu.Lock()
	bucket := p.f32[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.f32[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(buf)
		return buf, nil
	}
	p.mu.Unlock()
	return make([]float32, n), nil
}

// PutFloat32 returns a buffer to the pool.
func (p *Pool) PutFloat32(buf []float32) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.f32[len(buf)]) < maxPerBucket {
		p.f32[len(buf)] = append(p.f32[len(buf)], buf)
	}
}

// Uint16 returns a zeroed uint16 buffer of length n.
func (p *Pool) Uint16(n int) ([]uint16, error) {
	if n <= 0 {
		return nil, ErrInvalidSize
	}
	p.mu.Lock()
	bucket := p.u16[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.u16[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(buf)
		return buf, nil
	}
	p.mu.Unlock()
	return make([]uint16, n), nil
}

// PutUint16 returns a buffer to the pool.
func (p *Pool) PutUint16(buf []uint16) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.u16[len(buf)]) < maxPerBucket {
		p.u16[len(buf)] = append(p.u16[len(buf)], buf)
	}
}

// Bytes returns a zeroed byte buffer of length n.
func (p *Pool) Bytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidSize
	}
	p.mu.Lock()
	bucket := p.b8[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.b8[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(buf)
		return buf, nil
	}
	p.mu.Unlock()
	return make([]byte, n), nil
}

// PutBytes returns a buffer to the pool.
func (p *Pool) PutBytes(buf []byte) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.b8[len(buf)]) < maxPerBucket {
		p.b8[len(buf)] = append(p.b8[len(buf)], buf)
	}
}

// Drop discards all pooled buffers.
func (p *Pool) Drop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.f32 = make(map[int][][]float32)
	p.u16 = make(map[int][][]uint16)
	p.b8 = make(map[int][][]byte)
}
