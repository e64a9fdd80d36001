package listener

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// EventListener ties a height watcher and a sequencer together into a single
// component delivering ordered contract events
type EventListener struct {
	sequencer *Sequencer
	watcher   HeightWatcher
	logger    hclog.Logger
}

func NewEventListener(sequencer *Sequencer, watcher HeightWatcher, logger hclog.Logger) *EventListener {
	return &EventListener{
		sequencer: sequencer,
		watcher:   watcher,
		logger:    logger,
	}
}

// Start runs the listener until the context is done, the watcher reports a
// fatal error or the sequencer stops
func (l *EventListener) Start(ctx context.Context) error {
	if err := l.watcher.Start(); err != nil {
		return err
	}

	l.logger.Info("Event listener started")

	runErrCh := make(chan error, 1)

	go func() {
		runErrCh <- l.sequencer.Run(ctx, l.watcher.HeightCh())
	}()

	select {
	case err := <-l.watcher.ErrorCh():
		return err
	case err := <-runErrCh:
		return err
	}
}

func (l *EventListener) EventsCh() <-chan BlockEvents {
	return l.sequencer.EventsCh()
}

func (l *EventListener) CheckpointCh() <-chan uint64 {
	return l.sequencer.CheckpointCh()
}

func (l *EventListener) LastProcessedHeight() uint64 {
	return l.sequencer.LastProcessedHeight()
}

func (l *EventListener) Close() error {
	return l.watcher.Close()
}
