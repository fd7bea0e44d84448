package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jc3248-sketches/internal/common/logger"
)

// CleanupScheduler handles periodic maintenance tasks
type CleanupScheduler struct {
	maintenance *Maintenance
	logger      logger.Logger
	config      SchedulerConfig
	isRunning   bool
	lastResult  *CleanupResult
	mu          sync.RWMutex
	cancelFn    context.CancelFunc
	wg          sync.WaitGroup
}

// SchedulerConfig contains configuration for the cleanup scheduler
type SchedulerConfig struct {
	CleanupInterval time.Duration // How often to delete old observations
	Retention       time.Duration // How long observations are kept
	InitialDelay    time.Duration // Wait before the first cleanup
	Vacuum          bool          // Run VACUUM ANALYZE after deleting rows
}

// DefaultSchedulerConfig returns sensible defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CleanupInterval: 24 * time.Hour,
		Retention:       30 * 24 * time.Hour,
		InitialDelay:    1 * time.Minute,
		Vacuum:          true,
	}
}

// NewCleanupScheduler creates a new cleanup scheduler
func NewCleanupScheduler(exec Execer, logger logger.Logger, config SchedulerConfig) *CleanupScheduler {
	defaults := DefaultSchedulerConfig()
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.Retention <= 0 {
		config.Retention = defaults.Retention
	}
	if config.InitialDelay < 0 {
		config.InitialDelay = 0
	}
	return &CleanupScheduler{
		maintenance: New(exec, logger),
		logger:      logger,
		config:      config,
	}
}

// Start begins the cleanup scheduling
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cleanup scheduler is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFn = cancel
	s.isRunning = true

	s.logger.Info("Starting cleanup scheduler",
		"interval", s.config.CleanupInterval,
		"retention", s.config.Retention)

	s.wg.Add(1)
	go s.cleanupLoop(ctx)

	return nil
}

// Stop stops the cleanup scheduler and waits for a running cleanup
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	s.logger.Info("Stopping cleanup scheduler")
	if s.cancelFn != nil {
		s.cancelFn()
	}
	s.isRunning = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *CleanupScheduler) cleanupLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	initialDelay := time.NewTimer(s.config.InitialDelay)
	defer initialDelay.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Cleanup loop stopping")
			return

		case <-initialDelay.C:
			s.performCleanup(ctx)

		case <-ticker.C:
			s.performCleanup(ctx)
		}
	}
}

func (s *CleanupScheduler) performCleanup(ctx context.Context) {
	result, err := s.maintenance.CleanupOldObservations(ctx, s.config.Retention)

	s.mu.Lock()
	s.lastResult = &result
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Observation cleanup failed", "error", err, "duration", result.Duration)
		return
	}

	if s.config.Vacuum && result.RecordsDeleted > 0 {
		if err := s.maintenance.VacuumObservations(ctx); err != nil {
			s.logger.Warn("Failed to vacuum after cleanup", "error", err)
		}
	}
}

// TriggerCleanup manually runs a cleanup
func (s *CleanupScheduler) TriggerCleanup(ctx context.Context) error {
	s.logger.Info("Manual observation cleanup triggered", "retention", s.config.Retention)
	s.performCleanup(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult != nil && !s.lastResult.Success {
		return fmt.Errorf("cleanup failed: %s", s.lastResult.Error)
	}
	return nil
}

// GetStatus returns the current status of the cleanup scheduler
func (s *CleanupScheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := map[string]interface{}{
		"is_running":       s.isRunning,
		"cleanup_interval": s.config.CleanupInterval.String(),
		"retention":        s.config.Retention.String(),
		"vacuum":           s.config.Vacuum,
	}
	if s.lastResult != nil {
		status["last_records_deleted"] = s.lastResult.RecordsDeleted
		status["last_cutoff"] = s.lastResult.Cutoff
		status["last_success"] = s.lastResult.Success
	}
	return status
}
