package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler triggers a job batch once at startup and then on a fixed
// interval. A tick is skipped while the previous batch is still running, so
// two runs never race even if a batch outlives the interval.
type Scheduler struct {
	workerPool  *WorkerPool
	interval    time.Duration
	runOnStart  bool
	jobProvider func(context.Context) ([]Job, error)

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// Config holds configuration for the scheduler.
type Config struct {
	Interval    time.Duration
	WorkerCount int
	JobDelay    time.Duration
	QueueSize   int
	RunOnStart  bool
	JobProvider func(context.Context) ([]Job, error)
}

// New creates a new interval scheduler with the given configuration.
func New(config Config) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}

	workerPool := NewWorkerPool(config.WorkerCount, config.JobDelay, config.QueueSize)
	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("Scheduler initialized: interval=%v, workers=%d, delay=%v",
		config.Interval, config.WorkerCount, config.JobDelay)

	return &Scheduler{
		workerPool:  workerPool,
		interval:    config.Interval,
		runOnStart:  config.RunOnStart,
		jobProvider: config.JobProvider,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the scheduler and worker pool.
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	s.workerPool.Start()

	if s.runOnStart {
		log.Println("Scheduler: Running initial job batch on startup")
		s.runBatch()
	}

	s.wg.Add(1)
	go s.loop()

	log.Println("Scheduler started")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			log.Println("Scheduler loop: Context cancelled, shutting down")
			return

		case <-ticker.C:
			log.Printf("Scheduler: Interval tick")
			s.runBatch()
		}
	}
}

// runBatch fetches jobs and submits them, tracking completion so an
// overlapping tick can be detected and skipped.
func (s *Scheduler) runBatch() {
	if s.jobProvider == nil {
		log.Println("Scheduler: No job provider configured")
		return
	}

	if !s.running.CompareAndSwap(false, true) {
		log.Println("Scheduler: Previous batch still running, skipping this tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		ctx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
		defer cancel()

		jobs, err := s.jobProvider(ctx)
		if err != nil {
			log.Printf("Scheduler: Failed to fetch jobs: %v", err)
			return
		}

		if len(jobs) == 0 {
			log.Println("Scheduler: No jobs to process")
			return
		}

		var batch sync.WaitGroup
		tracked := make([]Job, 0, len(jobs))
		for _, job := range jobs {
			batch.Add(1)
			tracked = append(tracked, &trackedJob{Job: job, wg: &batch})
		}

		log.Printf("Scheduler: Submitting %d jobs to worker pool", len(tracked))
		for _, job := range tracked {
			if err := s.workerPool.Submit(job); err != nil {
				// Dropped jobs never execute, release their slot.
				batch.Done()
			}
		}

		batch.Wait()
		log.Println("Scheduler: Batch complete")
	}()
}

// trackedJob marks batch completion after the wrapped job finishes.
type trackedJob struct {
	Job
	wg   *sync.WaitGroup
	once sync.Once
}

func (j *trackedJob) Execute(ctx context.Context) error {
	defer j.once.Do(j.wg.Done)
	return j.Job.Execute(ctx)
}

// TriggerNow manually triggers a job batch immediately.
func (s *Scheduler) TriggerNow() {
	log.Println("Scheduler: Manual trigger")
	s.runBatch()
}

// Shutdown gracefully stops the scheduler and worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	log.Println("Scheduler: Initiating graceful shutdown...")

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Scheduler: Scheduler loop stopped gracefully")
	case <-time.After(timeout):
		log.Println("Scheduler: Timeout waiting for scheduler loop to stop")
	}

	s.workerPool.ShutdownWithTimeout(timeout)

	log.Println("Scheduler: Shutdown complete")
}
