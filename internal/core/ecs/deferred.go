package ecs

// ReturnQueue collects ids that must go back to their pool at tick end.
// Systems that iterate the active list mark ids here instead of returning
// them mid-iteration; CleanupSystem flushes the queue.
type ReturnQueue struct {
	queue  []EntityID
	spare  []EntityID
	queued map[EntityID]struct{}
}

func NewReturnQueue() *ReturnQueue {
	return &ReturnQueue{
		queue:  make([]EntityID, 0, 64),
		queued: make(map[EntityID]struct{}, 64),
	}
}

// Mark queues id once. Repeated marks within a tick are ignored.
func (q *ReturnQueue) Mark(id EntityID) {
	if _, ok := q.queued[id]; ok {
		return
	}
	q.queued[id] = struct{}{}
	q.queue = append(q.queue, id)
}

func (q *ReturnQueue) Pending() int { return len(q.queue) }

// Flush hands every queued id to fn in mark order and empties the queue.
// Ids marked by fn itself are kept for the next flush.
func (q *ReturnQueue) Flush(fn func(EntityID)) {
	pending := q.queue
	q.queue = q.spare[:0]
	clear(q.queued)
	for _, id := range pending {
		fn(id)
	}
	q.spare = pending[:0]
}
