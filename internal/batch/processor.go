package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

const defaultBatchSize = 10

// Item is anything the processor can report progress on
type Item interface {
	Slug() string
}

// ProcessFunc handles one batch
type ProcessFunc func(ctx context.Context, batch []Item) error

// Processor handles batch processing of items with a bounded number of workers
type Processor struct {
	config     config.BatchConfig
	statusChan chan *models.BatchProgress
	mu         sync.Mutex
}

// NewProcessor creates a new batch processor
func NewProcessor(cfg config.BatchConfig) *Processor {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Size < 1 {
		cfg.Size = defaultBatchSize
	}
	return &Processor{
		config:     cfg,
		statusChan: make(chan *models.BatchProgress, 1),
	}
}

// ProcessItems splits items into batches and runs processFn on them concurrently.
// Every batch is attempted even when others fail; the first failure is returned.
func (p *Processor) ProcessItems(ctx context.Context, items []Item, processFn ProcessFunc) error {
	totalItems := len(items)
	if totalItems == 0 {
		return nil
	}

	batchSize := p.config.Size
	totalBatches := (totalItems + batchSize - 1) / batchSize

	now := time.Now()
	progress := &models.BatchProgress{
		ProgressTracking: models.ProgressTracking{
			StartTime:      now,
			LastUpdateTime: now,
		},
		TotalBatches: totalBatches,
		TotalItems:   totalItems,
	}
	p.updateProgress(progress)

	workerChan := make(chan struct{}, p.config.Workers)
	var wg sync.WaitGroup
	var processErr error
	var mu sync.Mutex

	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if processErr == nil {
			processErr = err
		}
		progress.Errors = append(progress.Errors, err.Error())
		progress.LastUpdateTime = time.Now()
		p.updateProgress(progress)
	}

dispatch:
	for i := 0; i < totalBatches; i++ {
		select {
		case <-ctx.Done():
			recordErr(ctx.Err())
			break dispatch
		case workerChan <- struct{}{}:
		}

		start := i * batchSize
		end := start + batchSize
		if end > totalItems {
			end = totalItems
		}
		batch := items[start:end]

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-workerChan }()

			if err := p.processBatchWithRetry(ctx, batch, processFn); err != nil {
				recordErr(err)
				return
			}

			mu.Lock()
			progress.ProcessedBatches++
			progress.ProcessedItems += len(batch)
			progress.LastProcessedItem = batch[len(batch)-1].Slug()
			progress.LastUpdateTime = time.Now()
			p.updateProgress(progress)
			mu.Unlock()

			if p.config.BatchDelay > 0 {
				sleep(ctx, p.config.BatchDelay)
			}
		}()
	}

	wg.Wait()
	return processErr
}

// GetProgress returns the progress channel. It holds at most the latest snapshot.
func (p *Processor) GetProgress() <-chan *models.BatchProgress {
	return p.statusChan
}

// processBatchWithRetry processes a batch with retry logic
func (p *Processor) processBatchWithRetry(ctx context.Context, batch []Item, processFn ProcessFunc) error {
	var lastErr error
	for retry := 0; retry <= p.config.MaxRetries; retry++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := processFn(ctx, batch)
		if err == nil {
			return nil
		}

		lastErr = err
		if retry < p.config.MaxRetries {
			sleep(ctx, p.config.BatchDelay*time.Duration(retry+1))
		}
	}

	return fmt.Errorf("failed to process batch after %d retries: %w", p.config.MaxRetries, lastErr)
}

// updateProgress publishes a copy of progress, replacing any unread snapshot
func (p *Processor) updateProgress(progress *models.BatchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := progress.Clone()
	select {
	case p.statusChan <- snapshot:
	default:
		select {
		case <-p.statusChan:
		default:
		}
		p.statusChan <- snapshot
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
