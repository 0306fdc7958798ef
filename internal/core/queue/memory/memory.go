package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/queue"
)

type Queue struct {
	queue   []string
	maxSize int
	size    int
	head    int
	tail    int
	mu      sync.Mutex
}

var ErrSizeIsInvalid = errors.New("queue cannot be of this size")

// New initializes a fixed size queue based on the ring buffer algorithm.
// The queue holds email addresses that await dispatch to the newsletter provider
func New(size int) (*Queue, error) {
	if size <= 0 {
		return nil, ErrSizeIsInvalid
	}
	q := Queue{
		queue:   make([]string, size),
		maxSize: size,
		head:    0,
		tail:    0,
		size:    0,
	}
	return &q, nil
}

func (q *Queue) Push(ctx context.Context, email string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size >= q.maxSize {
		return queue.ErrQueueIsFull
	}
	q.queue[q.tail] = email
	q.size++
	q.tail = (q.tail + 1) % q.maxSize
	return nil
}

func (q *Queue) Pop(ctx context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return "", queue.ErrQueueIsEmpty
	}
	email := q.queue[q.head]
	q.queue[q.head] = ""
	q.head = (q.head + 1) % q.maxSize
	q.size--
	return email, nil
}

func (q *Queue) Len(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size, nil
}
