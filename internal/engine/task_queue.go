package engine

import (
	"avatar-server/internal/domain"
	"sync"
)

// Task - работа, которую нужно выполнить в потоке симуляции
type Task func(world *domain.GameWorld)

// TaskQueue - FIFO без ограничения размера. Push никогда не блокирует,
// поэтому сетевые горутины не ждут тика.
type TaskQueue struct {
	mu     sync.Mutex
	items  []Task
	wake   chan struct{}
	closed bool
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		items: make([]Task, 0, 64),
		wake:  make(chan struct{}, 1),
	}
}

// Push ставит задачу в конец очереди и будит цикл симуляции.
// После Close задача не принимается и Push возвращает false.
func (q *TaskQueue) Push(t Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default: // цикл уже разбужен
	}
	return true
}

// Close запрещает новые задачи. Уже принятые остаются для Drain.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Drain забирает все накопленные задачи в порядке поступления
func (q *TaskQueue) Drain() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	batch := q.items
	q.items = make([]Task, 0, cap(batch))
	return batch
}

func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Wake срабатывает после Push
func (q *TaskQueue) Wake() <-chan struct{} {
	return q.wake
}
