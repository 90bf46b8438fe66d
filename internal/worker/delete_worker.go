package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("delete worker pool is shut down")

type DeleteService interface {
	DeleteMany(ctx context.Context, ids []string) error
}

type DeleteWorkerPool struct {
	service      DeleteService
	requestChan  chan []string
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeMu      sync.RWMutex
	closed       bool
	shutdownOnce sync.Once
}

type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		WorkerCount:  5,
		BufferSize:   100,
		BatchSize:    10,
		BatchTimeout: 5 * time.Second,
	}
}

func NewDeleteWorkerPool(service DeleteService, config Config) *DeleteWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &DeleteWorkerPool{
		service:      service,
		requestChan:  make(chan []string, config.BufferSize),
		batchSize:    config.BatchSize,
		batchTimeout: config.BatchTimeout,
		workerCount:  config.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *DeleteWorkerPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("batchSize", p.batchSize).
		Dur("batchTimeout", p.batchTimeout).
		Msg("Starting delete worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// batch collects ids in arrival order without duplicates.
type batch struct {
	ids  []string
	seen map[string]struct{}
}

func (b *batch) add(ids []string) {
	for _, id := range ids {
		if _, ok := b.seen[id]; ok {
			continue
		}
		b.seen[id] = struct{}{}
		b.ids = append(b.ids, id)
	}
}

func (b *batch) reset() {
	b.ids = nil
	clear(b.seen)
}

func (p *DeleteWorkerPool) worker(id int) {
	defer p.wg.Done()

	log.Debug().Int("workerID", id).Msg("Worker started")

	pending := &batch{seen: make(map[string]struct{})}
	var timer *time.Timer
	var timerC <-chan time.Time

	processBatch := func() {
		if len(pending.ids) == 0 {
			return
		}

		if err := p.service.DeleteMany(p.ctx, pending.ids); err != nil {
			log.Error().
				Err(err).
				Int("workerID", id).
				Int("urlCount", len(pending.ids)).
				Msg("Failed to delete URLs")
		} else {
			log.Debug().
				Int("workerID", id).
				Int("urlCount", len(pending.ids)).
				Msg("Successfully deleted URLs")
		}

		pending.reset()
	}

	startTimer := func() {
		if timer == nil {
			timer = time.NewTimer(p.batchTimeout)
		} else {
			timer.Reset(p.batchTimeout)
		}
		timerC = timer.C
	}

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timerC = nil
	}

	for {
		select {
		case <-p.ctx.Done():
			if len(pending.ids) > 0 {
				log.Warn().
					Int("workerID", id).
					Int("urlCount", len(pending.ids)).
					Msg("Worker cancelled, dropping pending deletes")
			}
			stopTimer()
			return

		case ids, ok := <-p.requestChan:
			if !ok {
				log.Debug().Int("workerID", id).Msg("Request channel closed, processing remaining batch")
				processBatch()
				stopTimer()
				return
			}

			wasEmpty := len(pending.ids) == 0
			pending.add(ids)

			if len(pending.ids) >= p.batchSize {
				processBatch()
				stopTimer()
			} else if wasEmpty && len(pending.ids) > 0 {
				startTimer()
			}

		case <-timerC:
			processBatch()
			stopTimer()
		}
	}
}

// Submit queues ids for deletion, blocking while the queue is full.
func (p *DeleteWorkerPool) Submit(ids []string) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.requestChan <- ids:
		log.Debug().Int("urlCount", len(ids)).Msg("Delete request submitted")
		return nil
	default:
	}

	log.Warn().Int("urlCount", len(ids)).Msg("Request channel is full, blocking")

	select {
	case <-p.ctx.Done():
		return context.Canceled
	case p.requestChan <- ids:
		return nil
	}
}

// Shutdown stops accepting requests and drains the queue. If draining takes
// longer than timeout, in-flight work is cancelled.
func (p *DeleteWorkerPool) Shutdown(timeout time.Duration) error {
	var shutdownErr error

	p.shutdownOnce.Do(func() {
		log.Info().Msg("Shutting down delete worker pool")

		done := make(chan struct{})
		go func() {
			p.closeMu.Lock()
			p.closed = true
			close(p.requestChan)
			p.closeMu.Unlock()

			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("Delete worker pool shut down gracefully")
		case <-time.After(timeout):
			log.Warn().Msg("Delete worker pool shutdown timeout, forcing shutdown")
			p.cancel()
			<-done
			shutdownErr = context.DeadlineExceeded
		}

		p.cancel()
	})

	return shutdownErr
}

func (p *DeleteWorkerPool) Stats() PoolStats {
	return PoolStats{
		QueueSize:   len(p.requestChan),
		QueueCap:    cap(p.requestChan),
		WorkerCount: p.workerCount,
	}
}

type PoolStats struct {
	QueueSize   int
	QueueCap    int
	WorkerCount int
}
