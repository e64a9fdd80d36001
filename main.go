package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/fiamma-chain/cosmwasm-indexer/listener/db"
	"github.com/fiamma-chain/cosmwasm-indexer/logger"
	"github.com/hashicorp/go-hclog"
)

const (
	nodeRPCURL      = "http://localhost:26657"
	nodeWSURL       = "ws://localhost:26657/websocket"
	contractAddress = "fiamma14hj2tavq8fpesdwxxcu44rty3hh90vhujrvcmstl4zr3txmfvw9svpq73m"
)

func startListener(ctx context.Context, baseDirectory string) error {
	logger, err := logger.NewLogger(logger.LoggerConfig{
		LogLevel:      hclog.Debug,
		JSONLogFormat: false,
		LogFilePath:   filepath.Join(baseDirectory, "listener.log"),
	})
	if err != nil {
		return err
	}

	dbs, err := db.NewDatabaseInit("", filepath.Join(baseDirectory, "events.db"))
	if err != nil {
		return err
	}

	checkpoint, err := dbs.GetCheckpoint()
	if err != nil {
		return err
	}

	httpClient := chain.NewHTTPClient(&chain.HTTPClientConfig{
		URL: nodeRPCURL,
	}, logger.Named("rpc_client"))

	retriever := listener.NewBlockEventsRetriever(httpClient, logger.Named("retriever"))
	parser := listener.NewEventParser(contractAddress)

	sequencer := listener.NewSequencer(&listener.SequencerConfig{
		StartingHeight: checkpoint,
		RetryDelay:     time.Second * 2,
	}, retriever, parser, logger.Named("sequencer"))

	watcher := listener.NewPushWatcher(&listener.PushWatcherConfig{
		RestartOnError: true,
		RestartDelay:   time.Second * 2,
	}, chain.NewSubscriptionClient(nodeWSURL, logger.Named("subscription")), logger.Named("watcher"))

	eventListener := listener.NewEventListener(sequencer, watcher, logger.Named("listener"))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case blockEvents := <-eventListener.EventsCh():
				logger.Info("Block events",
					"height", blockEvents.Height, "count", len(blockEvents.Events))

				if err := dbs.OpenTx().
					AddBlockEvents(&blockEvents).
					SetCheckpoint(blockEvents.Height).
					Execute(); err != nil {
					logger.Error("Failed to persist block events", "err", err)

					continue
				}

				unprocessed, err := dbs.GetUnprocessedBlockEvents(0)
				if err != nil {
					logger.Error("Failed to read unprocessed events", "err", err)

					continue
				}

				for _, block := range unprocessed {
					for _, event := range block.Events {
						logger.Info("Contract event", "height", block.Height,
							"tx", event.TxHash, "action", event.Event.Action(), "event", event.Event)
					}
				}

				if err := dbs.MarkBlockEventsProcessed(unprocessed); err != nil {
					logger.Error("Failed to mark events processed", "err", err)
				}
			case height := <-eventListener.CheckpointCh():
				logger.Debug("Checkpoint", "height", height)
			}
		}
	}()

	go func() {
		<-ctx.Done()

		_ = eventListener.Close()
		_ = dbs.Close()
	}()

	return eventListener.Start(ctx)
}

func main() {
	baseDirectory, err := os.MkdirTemp("", "cosmwasm-indexer")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() {
		os.RemoveAll(baseDirectory)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChannel := make(chan os.Signal, 1)
	// Notify the signalChannel when the interrupt signal is received (Ctrl+C)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalChannel
		cancel()
	}()

	if err := startListener(ctx, baseDirectory); err != nil && ctx.Err() == nil {
		fmt.Println("listener error", err)
		os.Exit(1)
	}
}
