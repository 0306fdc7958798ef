package run

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
)

var ErrDispatchInterrupted = errors.New("newsletter dispatch is interrupted")

// Dispatch drains the newsletter queue in a loop,
// submitting one queued signup to the provider per run
func Dispatch(ctx context.Context, app *application.App, wg *sync.WaitGroup, failure chan error) {
	defer wg.Done()
	first := make(chan struct{}, 1)
	first <- struct{}{}
	var wait <-chan struct{} = first
	for {
		select {
		case <-ctx.Done():
			// shutting down
			log.Info().Msg("Stopping dispatch of newsletter queue")
			failure <- ErrDispatchInterrupted
			return
		case <-wait:
			wait = app.SubscriptionService.ProcessNextSubscription(ctx)
		}
	}
}
