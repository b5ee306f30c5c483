package loans

import (
	"context"
	"log"
	"sync"
	"time"
)

// JobProcessor runs the background jobs for loan sessions
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

type JobConfig struct {
	ReapInterval time.Duration
}

func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ReapInterval: 1 * time.Minute,
	}
}

func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil || config.ReapInterval <= 0 {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting loan session background jobs...")

	jp.wg.Add(1)
	go jp.startReaper(ctx)

	log.Println("Loan session background jobs started")
}

// Stop signals the jobs and waits for them to return
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() {
		log.Println("Stopping loan session background jobs...")
		close(jp.done)
		jp.wg.Wait()
		log.Println("Loan session background jobs stopped")
	})
}

func (jp *JobProcessor) startReaper(ctx context.Context) {
	defer jp.wg.Done()

	ticker := time.NewTicker(jp.config.ReapInterval)
	defer ticker.Stop()

	log.Printf("Started idle session reaper with %v interval", jp.config.ReapInterval)

	for {
		select {
		case <-ticker.C:
			jp.reapIdleSessions(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) reapIdleSessions(ctx context.Context) {
	if reaped := jp.service.ReapIdle(ctx); reaped > 0 {
		log.Printf("Closed %d idle loan sessions", reaped)
	}
}

// GetJobStatus reports the job settings for the status endpoint
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"reap_interval":   jp.config.ReapInterval.String(),
		"active_sessions": jp.service.ActiveSessions(),
		"status":          "running",
	}
}
