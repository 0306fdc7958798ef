package queue

import (
	"context"
	"errors"
)

var ErrQueueIsFull = errors.New("subscription queue is full")
var ErrQueueIsEmpty = errors.New("subscription queue is empty")

type Repository interface {
	Push(context.Context, string) error
	Pop(context.Context) (string, error)
	Len(ctx context.Context) (int, error)
}
