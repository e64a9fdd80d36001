package listener

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fiamma-chain/cosmwasm-indexer/common"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultEventsChannelSize     = 128
	defaultCheckpointChannelSize = 1
)

// ErrHeightChannelClosed is returned from Run when the watcher closes its
// height channel
var ErrHeightChannelClosed = errors.New("height channel closed")

type SequencerConfig struct {
	// last height that is already processed, catch up starts right after it
	StartingHeight uint64 `json:"startingHeight"`
	// capacity of the delivery channel, the sequencer blocks when it is full
	EventsChannelSize int `json:"eventsChannelSize"`
	// capacity of the lossy checkpoint channel
	CheckpointChannelSize int `json:"checkpointChannelSize"`
	// wait between retries of a failed block, zero means give up on the
	// current batch and wait for the next height signal
	RetryDelay time.Duration `json:"retryDelay"`
}

// Sequencer turns latest height signals into a strictly ordered, gap free
// stream of per block contract events
type Sequencer struct {
	config    *SequencerConfig
	retriever BlockEventsRetriever
	parser    *EventParser
	logger    hclog.Logger

	lastProcessed uint64
	eventsCh      chan BlockEvents
	checkpointCh  chan uint64
}

var _ ProgressTracker = (*Sequencer)(nil)

func NewSequencer(
	config *SequencerConfig, retriever BlockEventsRetriever, parser *EventParser, logger hclog.Logger,
) *Sequencer {
	eventsChannelSize := config.EventsChannelSize
	if eventsChannelSize <= 0 {
		eventsChannelSize = defaultEventsChannelSize
	}

	checkpointChannelSize := config.CheckpointChannelSize
	if checkpointChannelSize <= 0 {
		checkpointChannelSize = defaultCheckpointChannelSize
	}

	return &Sequencer{
		config:        config,
		retriever:     retriever,
		parser:        parser,
		logger:        logger,
		lastProcessed: config.StartingHeight,
		eventsCh:      make(chan BlockEvents, eventsChannelSize),
		checkpointCh:  make(chan uint64, checkpointChannelSize),
	}
}

// EventsCh delivers the contract events of each processed block that emitted
// any, in strictly increasing height order
func (s *Sequencer) EventsCh() <-chan BlockEvents {
	return s.eventsCh
}

// CheckpointCh reports processed heights. Sends are lossy, a slow consumer
// only misses intermediate checkpoints, never the stream on EventsCh.
func (s *Sequencer) CheckpointCh() <-chan uint64 {
	return s.checkpointCh
}

func (s *Sequencer) LastProcessedHeight() uint64 {
	return atomic.LoadUint64(&s.lastProcessed)
}

// Run consumes latest height signals until the context is done or the channel
// is closed. Every signal triggers a catch up that processes all heights from
// the last processed one up to the signaled one, in order.
func (s *Sequencer) Run(ctx context.Context, heights <-chan uint64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case latest, ok := <-heights:
			if !ok {
				return ErrHeightChannelClosed
			}

			if latest <= s.LastProcessedHeight() {
				continue
			}

			if err := s.catchUp(ctx, latest); err != nil {
				return err
			}
		}
	}
}

func (s *Sequencer) catchUp(ctx context.Context, target uint64) error {
	s.logger.Debug("Catching up", "from", s.LastProcessedHeight()+1, "to", target)

	for height := s.LastProcessedHeight() + 1; height <= target; height++ {
		for {
			err := s.processHeight(ctx, height)
			if err == nil {
				break
			}

			if common.IsContextDoneErr(err) {
				return err
			}

			s.logger.Error("Failed to process block", "height", height, "err", err)

			if s.config.RetryDelay <= 0 {
				// give up on this batch, the next height signal retries from here
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}
	}

	return nil
}

func (s *Sequencer) processHeight(ctx context.Context, height uint64) error {
	txEvents, err := s.retriever.GetBlockEvents(ctx, height)
	if err != nil {
		return err
	}

	var events []TxContractEvent

	for _, tx := range txEvents {
		for _, event := range tx.Events {
			parsed, err := s.parser.ParseContractEvent(event)
			if err != nil {
				s.logger.Warn("Skipping malformed contract event",
					"height", height, "tx", tx.TxHash, "err", err)

				continue
			}

			if parsed == nil {
				continue
			}

			events = append(events, TxContractEvent{
				TxHash: tx.TxHash,
				Event:  parsed,
			})
		}
	}

	if len(events) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s.eventsCh <- BlockEvents{Height: height, Events: events}:
		}
	}

	atomic.StoreUint64(&s.lastProcessed, height)

	s.emitCheckpoint(height)

	return nil
}

func (s *Sequencer) emitCheckpoint(height uint64) {
	select {
	case s.checkpointCh <- height:
	default:
		s.logger.Trace("Checkpoint channel full, dropping checkpoint", "height", height)
	}
}
