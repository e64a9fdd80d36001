package listener

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	defaultBaseInterval     = time.Second * 2
	defaultMaxInterval      = time.Second * 30
	defaultLagThreshold     = 10
	defaultFailureTolerance = 5
)

type PollWatcherConfig struct {
	// polling period while the listener is close to the chain tip
	BaseInterval time.Duration `json:"baseInterval"`
	// upper bound for the stretched polling period during catch up
	MaxInterval time.Duration `json:"maxInterval"`
	// lag in blocks above which the polling period starts to stretch
	LagThreshold uint64 `json:"lagThreshold"`
	// consecutive status failures tolerated before giving up
	FailureTolerance int `json:"failureTolerance"`
}

func (c *PollWatcherConfig) populateDefaults() {
	if c.BaseInterval <= 0 {
		c.BaseInterval = defaultBaseInterval
	}

	if c.MaxInterval <= 0 {
		c.MaxInterval = defaultMaxInterval
	}

	if c.LagThreshold == 0 {
		c.LagThreshold = defaultLagThreshold
	}

	if c.FailureTolerance <= 0 {
		c.FailureTolerance = defaultFailureTolerance
	}
}

// PollWatcher publishes latest block heights by periodically polling the node
// status. While the consumer is far behind the tip, polling slows down, there
// is no point in discovering new heights faster than blocks get processed.
type PollWatcher struct {
	config   *PollWatcherConfig
	reader   ChainStatusReader
	progress ProgressTracker
	logger   hclog.Logger

	heightCh chan uint64
	errorCh  chan error
	closeCh  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	lock          sync.Mutex
	isClosed      bool
	lastPublished uint64
}

var _ HeightWatcher = (*PollWatcher)(nil)

func NewPollWatcher(
	config *PollWatcherConfig, reader ChainStatusReader, progress ProgressTracker, logger hclog.Logger,
) *PollWatcher {
	config.populateDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	return &PollWatcher{
		config:   config,
		reader:   reader,
		progress: progress,
		logger:   logger,
		heightCh: make(chan uint64, 1),
		errorCh:  make(chan error, 1),
		closeCh:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start performs one status poll to verify the node is reachable, publishes
// the current height and begins the polling loop
func (w *PollWatcher) Start() error {
	latest, err := w.poll()
	if err != nil {
		return err
	}

	w.publish(latest)

	go w.loop()

	return nil
}

func (w *PollWatcher) HeightCh() <-chan uint64 {
	return w.heightCh
}

func (w *PollWatcher) ErrorCh() <-chan error {
	return w.errorCh
}

func (w *PollWatcher) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.isClosed {
		w.isClosed = true

		close(w.closeCh)
		w.cancel()
	}

	return nil
}

func (w *PollWatcher) loop() {
	failures := 0
	interval := w.config.BaseInterval

	for {
		select {
		case <-w.closeCh:
			return
		case <-time.After(interval):
		}

		latest, err := w.poll()
		if err != nil {
			if w.closed() {
				return
			}

			failures++

			if failures >= w.config.FailureTolerance {
				w.reportError(err)

				return
			}

			w.logger.Warn("Status poll failed", "failures", failures, "err", err)

			continue
		}

		failures = 0

		w.publish(latest)

		var lag uint64
		if processed := w.progress.LastProcessedHeight(); latest > processed {
			lag = latest - processed
		}

		interval = nextPollInterval(w.config, lag)
	}
}

func (w *PollWatcher) poll() (uint64, error) {
	status, err := w.reader.Status(w.ctx)
	if err != nil {
		return 0, err
	}

	return status.LatestHeight()
}

func (w *PollWatcher) reportError(err error) {
	select {
	case w.errorCh <- err:
	default:
		w.logger.Error("Error channel full, dropping error", "err", err)
	}
}

func (w *PollWatcher) closed() bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.isClosed
}

// publish keeps only the most recent height in the channel. Heights not newer
// than the last published one are dropped.
func (w *PollWatcher) publish(height uint64) {
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

		select {
		case <-w.heightCh:
		default:
		}
	}
}

// nextPollInterval stretches the base interval proportionally to how far the
// consumer lags behind the tip, capped at the configured maximum
func nextPollInterval(config *PollWatcherConfig, lag uint64) time.Duration {
	if lag <= config.LagThreshold {
		return config.BaseInterval
	}

	factor := lag/config.LagThreshold + 1
	if factor >= uint64(config.MaxInterval/config.BaseInterval) { //nolint:gosec
		return config.MaxInterval
	}

	return config.BaseInterval * time.Duration(factor) //nolint:gosec
}
