package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/queue/memory"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/newsletter"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/ports/queue"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/timing"
)

const (
	SleepOnFinishedRun = time.Millisecond * 50
	SleepOnError       = time.Millisecond * 100
	SleepOnEmptyQueue  = time.Second
)

// Service decouples newsletter signups from the third-party provider:
// captured addresses are buffered in a queue and dispatched
// by a background worker, so a slow or failing provider
// never delays the signup request itself
type Service struct {
	queue      queue.Repository
	Newsletter newsletter.Service
}

type Option func(s *Service)

func WithNewsletterService(ns newsletter.Service) Option {
	return func(s *Service) {
		s.Newsletter = ns
	}
}

func WithQueueRepository(r queue.Repository) Option {
	return func(s *Service) {
		s.queue = r
	}
}

func WithInMemoryQueue(size int) Option {
	repo, err := memory.New(size)
	if err != nil {
		panic(err)
	}
	return WithQueueRepository(repo)
}

func New(opts ...Option) Service {
	s := Service{}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *Service) QueueLength(ctx context.Context) (int, error) {
	return s.queue.Len(ctx)
}

// Subscribe accepts a newsletter signup. The address is only queued here;
// the actual provider call happens in the background.
// A full queue drops the signup silently, since the signup form
// reports success regardless
func (s *Service) Subscribe(ctx context.Context, email string) {
	if err := s.queue.Push(ctx, email); err != nil {
		log.Warn().Err(err).Msg("Dropped newsletter signup")
	}
}

// ProcessNextSubscription pops one queued address and submits it
// to the provider. The returned channel signals when the worker
// should attempt the next run. Failed submissions are not retried
func (s *Service) ProcessNextSubscription(ctx context.Context) <-chan struct{} {
	email, err := s.queue.Pop(ctx)
	if err != nil {
		// queue is currently empty, wait a bit
		if errors.Is(err, queue.ErrQueueIsEmpty) {
			log.Debug().Msg("Newsletter queue is empty")
			return timing.Wait(ctx, SleepOnEmptyQueue)
		}
		log.Error().Err(err).Msg("Unable to retrieve signup from queue")
		return timing.Wait(ctx, SleepOnError)
	}

	log.Info().Msg("Submitting signup to newsletter provider")
	if err = s.Newsletter.Subscribe(email); err != nil {
		log.Error().Err(err).Msg("Failed to submit signup to newsletter provider")
		return timing.Wait(ctx, SleepOnError)
	}

	return timing.Wait(ctx, SleepOnFinishedRun)
}
