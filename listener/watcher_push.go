package listener

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	defaultStartTries   = 4
	defaultRestartDelay = time.Second * 5
)

// NewBlockSubscription is a push source of new block heights, backed by a
// websocket subscription on the node
type NewBlockSubscription interface {
	Connect(ctx context.Context) error
	ReadHeight() (uint64, error)
	Close() error
}

type PushWatcherConfig struct {
	StartTries     int           `json:"startTries"`
	RestartOnError bool          `json:"restartOnError"`
	RestartDelay   time.Duration `json:"restartDelay"`
}

// PushWatcher publishes latest block heights received over a NewBlock
// subscription. The height channel holds only the most recent height, older
// unconsumed ones are replaced.
type PushWatcher struct {
	config       *PushWatcherConfig
	subscription NewBlockSubscription
	logger       hclog.Logger

	heightCh chan uint64
	errorCh  chan error
	closeCh  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	lock          sync.Mutex
	isClosed      bool
	lastPublished uint64
}

var _ HeightWatcher = (*PushWatcher)(nil)

func NewPushWatcher(
	config *PushWatcherConfig, subscription NewBlockSubscription, logger hclog.Logger,
) *PushWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PushWatcher{
		config:       config,
		subscription: subscription,
		logger:       logger,
		heightCh:     make(chan uint64, 1),
		errorCh:      make(chan error, 1),
		closeCh:      make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start connects the subscription and begins publishing heights. Connecting is
// retried a configured number of times before giving up.
func (w *PushWatcher) Start() error {
	startTries := w.config.StartTries
	if startTries <= 0 {
		startTries = defaultStartTries
	}

	restartDelay := w.config.RestartDelay
	if restartDelay <= 0 {
		restartDelay = defaultRestartDelay
	}

	var err error

	for i := 1; i <= startTries; i++ {
		if err = w.subscription.Connect(w.ctx); err == nil {
			break
		}

		w.logger.Warn("Failed to connect subscription", "try", i, "err", err)

		if i < startTries {
			select {
			case <-w.closeCh:
				return err
			case <-time.After(restartDelay):
			}
		}
	}

	if err != nil {
		return err
	}

	go w.readLoop()

	return nil
}

func (w *PushWatcher) HeightCh() <-chan uint64 {
	return w.heightCh
}

func (w *PushWatcher) ErrorCh() <-chan error {
	return w.errorCh
}

func (w *PushWatcher) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.isClosed {
		w.isClosed = true

		close(w.closeCh)
		w.cancel()

		return w.subscription.Close()
	}

	return nil
}

func (w *PushWatcher) readLoop() {
	for {
		height, err := w.subscription.ReadHeight()
		if err != nil {
			if w.closed() {
				return
			}

			w.handleError(err)

			return
		}

		w.publish(height)
	}
}

func (w *PushWatcher) handleError(err error) {
	if w.config.RestartOnError {
		w.logger.Warn("Subscription broken, restarting", "err", err)

		select {
		case <-w.closeCh:
			return
		case <-time.After(w.config.RestartDelay):
		}

		if restartErr := w.Start(); restartErr != nil {
			w.reportError(restartErr)
		}

		return
	}

	w.reportError(err)
}

func (w *PushWatcher) closed() bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.isClosed
}

func (w *PushWatcher) reportError(err error) {
	select {
	case w.errorCh <- err:
	default:
		w.logger.Error("Error channel full, dropping error", "err", err)
	}
}

// publish keeps only the most recent height in the channel. Heights not newer
// than the last published one are dropped.
func (w *PushWatcher) publish(height uint64) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.isClosed || height <= w.lastPublished {
		return
	}

	w.lastPublished = height

	for {
		select {
		case w.heightCh <- height:
			return
		default:
		}

		// replace the stale height waiting in the channel
		select {
		case <-w.heightCh:
		default:
		}
	}
}
