// file: internals/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"classtrack_backend/internals/features/invoices/service"
)

// Scheduler runs the monthly invoice sweep. One pass may take a while when
// many classes are due, so each run gets its own timeout.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *service.Reconciler
	spec       string
}

func New(reconciler *service.Reconciler, spec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[CRON] invoice reconciliation scheduled: %q", s.spec)
	return nil
}

// Stop waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("[CRON] invoice reconciliation started")
	results, err := s.reconciler.Run(ctx)
	if err != nil {
		log.Printf("[CRON] invoice reconciliation failed: %v", err)
		return
	}
	issued := 0
	for _, r := range results {
		if r.Err == nil && r.InvoiceID != "" {
			issued++
		}
	}
	log.Printf("[CRON] invoice reconciliation finished, %d invoices issued", issued)
}
