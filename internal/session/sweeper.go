package session

import (
	"context"
	"log"
	"time"
)

// StartSweeper launches a background goroutine that drops idle sessions
// every interval until ctx is cancelled.
func StartSweeper(ctx context.Context, st *Store, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := st.Sweep(now, ttl); n > 0 {
					log.Printf("[session] swept %d idle sessions (%d live)", n, st.Len())
				}
			}
		}
	}()

	log.Printf("[session] sweeper started: every %s, idle ttl %s", interval, ttl)
}
