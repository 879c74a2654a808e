// Package pool is a generic object-reuse allocator. Instances are grouped by
// template id; each template keeps a FIFO idle queue that is the only place
// an idle instance lives.
//
// Accessed only from the game loop goroutine, no locks.
package pool

import (
	"errors"

	"github.com/emberline/horde/internal/core/ecs"
	"go.uber.org/zap"
)

var (
	ErrTemplateNotFound  = errors.New("pool: template not registered")
	ErrDuplicateTemplate = errors.New("pool: template already registered")
	ErrDoubleRelease     = errors.New("pool: instance already idle")
	ErrUntracked         = errors.New("pool: instance not owned by this pool")
)

// Resetter is implemented by pooled values. Reset must return the value to a
// neutral state: origin transform, zero orientation, no references carried
// over from its previous life.
type Resetter interface {
	Reset()
}

// Instance is a pooled handle: a generational id, the template it was
// created from, and the reusable value.
type Instance[T Resetter] struct {
	id       ecs.EntityID
	template string
	idle     bool
	Value    T
}

func (i *Instance[T]) ID() ecs.EntityID { return i.id }
func (i *Instance[T]) Template() string { return i.template }
func (i *Instance[T]) Idle() bool       { return i.idle }

// NewFunc builds a fresh value for a template. It is called once per
// instance; afterwards the value is recycled through Reset.
type NewFunc[T Resetter] func(id ecs.EntityID) T

type bucket[T Resetter] struct {
	newFn  NewFunc[T]
	idle   []*Instance[T]
	active int
}

// Options configures growth when a template's idle queue is empty.
type Options struct {
	AutoExpand bool // allocate ExpandSize instances at once
	ExpandSize int
}

// Pool hands out and reclaims instances without reallocation.
type Pool[T Resetter] struct {
	opts      Options
	ids       *ecs.IDAllocator
	instances *ecs.PtrComponentStore[Instance[T]]
	buckets   map[string]*bucket[T]
	log       *zap.Logger
}

func New[T Resetter](opts Options, log *zap.Logger) *Pool[T] {
	if opts.ExpandSize < 1 {
		opts.ExpandSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T]{
		opts:      opts,
		ids:       ecs.NewIDAllocator(),
		instances: ecs.NewPtrComponentStore[Instance[T]](),
		buckets:   make(map[string]*bucket[T]),
		log:       log,
	}
}

// RegisterTemplate registers newFn under id and pre-warms initialSize idle
// instances.
func (p *Pool[T]) RegisterTemplate(id string, newFn NewFunc[T], initialSize int) error {
	if _, ok := p.buckets[id]; ok {
		return ErrDuplicateTemplate
	}
	b := &bucket[T]{newFn: newFn, idle: make([]*Instance[T], 0, initialSize)}
	p.buckets[id] = b
	for i := 0; i < initialSize; i++ {
		inst := p.allocate(id, b)
		inst.idle = true
		b.idle = append(b.idle, inst)
	}
	return nil
}

// Registered reports whether id has been registered.
func (p *Pool[T]) Registered(id string) bool {
	_, ok := p.buckets[id]
	return ok
}

// Acquire returns an idle instance of template id, growing the pool when the
// queue is empty. It only fails for unregistered templates.
func (p *Pool[T]) Acquire(id string) (*Instance[T], error) {
	b, ok := p.buckets[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	if len(b.idle) == 0 {
		p.grow(id, b)
	}
	inst := b.idle[0]
	b.idle[0] = nil
	b.idle = b.idle[1:]
	inst.idle = false
	b.active++
	return inst, nil
}

// grow refills an empty idle queue. With auto-expand off a single instance is
// allocated so gameplay never stalls on exhaustion.
func (p *Pool[T]) grow(id string, b *bucket[T]) {
	n := 1
	if p.opts.AutoExpand {
		n = p.opts.ExpandSize
	}
	for i := 0; i < n; i++ {
		inst := p.allocate(id, b)
		inst.idle = true
		b.idle = append(b.idle, inst)
	}
	p.log.Debug("pool expanded",
		zap.String("template", id),
		zap.Int("added", n),
		zap.Int("total", len(b.idle)+b.active))
}

func (p *Pool[T]) allocate(template string, b *bucket[T]) *Instance[T] {
	id := p.ids.Create()
	inst := &Instance[T]{id: id, template: template, Value: b.newFn(id)}
	p.instances.Set(id, inst)
	return inst
}

// Release resets inst and enqueues it under its template. Releasing an idle
// instance, or one this pool does not track, is dropped and reported; the
// idle queue is never touched in that case.
func (p *Pool[T]) Release(inst *Instance[T]) error {
	if inst == nil {
		return ErrUntracked
	}
	tracked, ok := p.instances.Get(inst.id)
	if !ok || tracked != inst || !p.ids.Alive(inst.id) {
		p.log.Warn("release of untracked instance",
			zap.Uint64("id", uint64(inst.id)),
			zap.String("template", inst.template))
		return ErrUntracked
	}
	if inst.idle {
		p.log.Warn("double release dropped",
			zap.Uint64("id", uint64(inst.id)),
			zap.String("template", inst.template))
		return ErrDoubleRelease
	}
	b := p.buckets[inst.template]
	inst.Value.Reset()
	inst.idle = true
	b.active--
	b.idle = append(b.idle, inst)
	return nil
}

// Lookup returns the tracked instance for id.
func (p *Pool[T]) Lookup(id ecs.EntityID) (*Instance[T], bool) {
	return p.instances.Get(id)
}

// Teardown destroys every instance of template id, idle or active, and
// unregisters it. Handles held elsewhere become untracked.
func (p *Pool[T]) Teardown(id string) {
	if _, ok := p.buckets[id]; !ok {
		return
	}
	var doomed []ecs.EntityID
	p.instances.Each(func(eid ecs.EntityID, inst *Instance[T]) {
		if inst.template == id {
			doomed = append(doomed, eid)
		}
	})
	for _, eid := range doomed {
		p.instances.Remove(eid)
		p.ids.Destroy(eid)
	}
	delete(p.buckets, id)
}

// Close tears down every template.
func (p *Pool[T]) Close() {
	for id := range p.buckets {
		p.Teardown(id)
	}
}

// Stats describes one template's instances.
type Stats struct {
	Idle   int
	Active int
	Total  int
}

// Stats returns counts for template id (zero for unknown templates).
func (p *Pool[T]) Stats(id string) Stats {
	b, ok := p.buckets[id]
	if !ok {
		return Stats{}
	}
	return Stats{Idle: len(b.idle), Active: b.active, Total: len(b.idle) + b.active}
}

// Templates returns the number of registered templates.
func (p *Pool[T]) Templates() int { return len(p.buckets) }

// Live returns the number of instances across all templates.
func (p *Pool[T]) Live() int { return p.ids.Live() }
