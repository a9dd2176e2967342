package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// CronService runs the periodic match rescoring pass
type CronService struct {
	matchmakingService *MatchmakingService
	stopChan           chan bool
	isRunning          bool
	pendingRun         bool
	pendingRunMu       sync.Mutex
}

// NewCronService creates a new cron service instance
func NewCronService(matchmakingService *MatchmakingService) *CronService {
	return &CronService{
		matchmakingService: matchmakingService,
		stopChan:           make(chan bool),
	}
}

// StartRescoreCron starts the periodic rescoring job
func (c *CronService) StartRescoreCron(interval time.Duration) {
	if c.isRunning {
		log.Println("⚠️ Rescore cron is already running")
		return
	}

	c.isRunning = true
	log.Printf("🚀 Starting match rescore cron job (interval: %v)", interval)

	go func() {
		for {
			// 1. Run the rescoring pass
			c.runRescore()

			// 2. Check if another run was requested during the last run
			c.pendingRunMu.Lock()
			rerun := c.pendingRun
			c.pendingRun = false
			c.pendingRunMu.Unlock()

			if rerun {
				// Run again immediately (do-while style)
				continue
			}

			// 3. Otherwise, wait for the interval
			select {
			case <-c.stopChan:
				log.Println("🛑 Stopping match rescore cron job")
				return
			case <-time.After(interval):
				// Loop continues
			}
		}
	}()
}

// StopRescoreCron stops the rescoring job
func (c *CronService) StopRescoreCron() {
	if !c.isRunning {
		log.Println("⚠️ Rescore cron is not running")
		return
	}

	c.isRunning = false
	c.stopChan <- true
	log.Println("🛑 Match rescore cron job stopped")
}

// RequestRun asks for an extra rescoring pass as soon as the current one
// finishes, coalescing concurrent requests into a single run
func (c *CronService) RequestRun() {
	c.pendingRunMu.Lock()
	c.pendingRun = true
	c.pendingRunMu.Unlock()
}

func (c *CronService) runRescore() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := c.matchmakingService.RescoreAll(ctx); err != nil {
		log.Printf("❌ Rescore pass failed: %v", err)
	}
}
