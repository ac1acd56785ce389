package pipeline

import (
	"context"
	"runtime"
	"sync"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
)

// DefaultSequentialThreshold is the batch size below which messages are
// handled on the calling goroutine.
const DefaultSequentialThreshold = 100

// MessageHandler turns one raw message into an outcome.
type MessageHandler func(ctx context.Context, msg models.RawMessage) Outcome

// ConcurrentProcessor handles parallel processing of messages
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
	threshold   int
}

// NewConcurrentProcessor creates a new concurrent processor. Non-positive
// values select runtime.NumCPU workers and DefaultSequentialThreshold.
func NewConcurrentProcessor(logger logging.Logger, workers, threshold int) *ConcurrentProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if threshold <= 0 {
		threshold = DefaultSequentialThreshold
	}
	return &ConcurrentProcessor{
		logger:      logger,
		workerCount: workers,
		threshold:   threshold,
	}
}

// Process runs handler over every message. Outcomes keep the input order.
// A cancelled context stops the work and its error is returned.
func (cp *ConcurrentProcessor) Process(ctx context.Context, messages []models.RawMessage, handler MessageHandler) ([]Outcome, error) {
	// Use sequential processing for small datasets to avoid overhead
	if len(messages) < cp.threshold || cp.workerCount == 1 {
		return cp.processSequential(ctx, messages, handler)
	}
	return cp.processConcurrent(ctx, messages, handler)
}

// processSequential handles small datasets sequentially
func (cp *ConcurrentProcessor) processSequential(ctx context.Context, messages []models.RawMessage, handler MessageHandler) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(messages))
	for i := range messages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, handler(ctx, messages[i]))
	}
	return outcomes, nil
}

// processConcurrent handles large datasets with worker pools
func (cp *ConcurrentProcessor) processConcurrent(ctx context.Context, messages []models.RawMessage, handler MessageHandler) ([]Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Each index is written by exactly one worker, so the slice needs no lock.
	outcomes := make([]Outcome, len(messages))
	indexChan := make(chan int, cp.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go cp.worker(ctx, &wg, indexChan, messages, outcomes, handler)
	}

	go func() {
		defer close(indexChan)
		for i := range messages {
			select {
			case indexChan <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cp.logger.Debug("Concurrent processing completed",
		logging.F(logging.FieldCount, len(messages)),
		logging.F(logging.FieldWorkers, cp.workerCount))
	return outcomes, nil
}

// worker processes message indexes from the channel
func (cp *ConcurrentProcessor) worker(ctx context.Context, wg *sync.WaitGroup, indexChan <-chan int,
	messages []models.RawMessage, outcomes []Outcome, handler MessageHandler) {
	defer wg.Done()

	for {
		select {
		case i, ok := <-indexChan:
			if !ok {
				return
			}
			outcomes[i] = handler(ctx, messages[i])
		case <-ctx.Done():
			return
		}
	}
}
