package mail

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/logging"
)

const defaultSendTimeout = 30 * time.Second

// Dispatcher sends messages in the background. Dispatch never blocks on
// delivery and never reports delivery errors to the caller; failures are
// logged only.
type Dispatcher struct {
	sender  Sender
	log     logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, log logging.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Dispatcher{sender: sender, log: log.With("module", "mail"), timeout: timeout}
}

// Dispatch queues msg for delivery. Cancellation of ctx does not abort the
// send; its values are kept for logging.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, msg); err != nil {
			d.log.Error(sendCtx, "failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		d.log.Debug(sendCtx, "email sent", "to", msg.To, "subject", msg.Subject)
	}()
}

// Wait blocks until all in-flight sends finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
