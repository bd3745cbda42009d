package scheduler

import (
	"context"
	"log"
	"time"

	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

const purgeBatch = 100

// StartSelectionCleanupScheduler membuang selection_sessions yang sudah kadaluarsa.
// Berhenti saat ctx dibatalkan.
func StartSelectionCleanupScheduler(ctx context.Context, svc *selSvc.Service, every time.Duration) {
	if every <= 0 {
		every = 30 * time.Minute
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			RunSelectionCleanup(ctx, svc)
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] scheduler seleksi berhenti")
				return
			case <-t.C:
			}
		}
	}()
}

// RunSelectionCleanup: satu putaran; hapus per batch sampai habis.
func RunSelectionCleanup(ctx context.Context, svc *selSvc.Service) int64 {
	var total int64
	for {
		n, err := svc.PurgeExpired(ctx, purgeBatch)
		if err != nil {
			log.Printf("[CLEANUP ERROR] Gagal hapus selection_sessions kadaluarsa: %v", err)
			return total
		}
		total += n
		if n < purgeBatch {
			break
		}
	}
	if total > 0 {
		log.Printf("[CLEANUP] %d selection_sessions kadaluarsa dihapus", total)
	}
	return total
}
