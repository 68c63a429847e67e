// ABOUTME: Detached AI call logging
// ABOUTME: Fire-and-forget ai_logs writes that never reach the caller
package ai

import (
	"database/sql"
	"log"
	"sync"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

// Recorder appends ai_logs rows in the background. Callers get their
// result before (or regardless of whether) the write lands; a failed
// write goes to the process log, never back to the caller.
type Recorder struct {
	db *sql.DB
	wg sync.WaitGroup
}

func NewRecorder(database *sql.DB) *Recorder {
	return &Recorder{db: database}
}

// Record spawns the write and returns immediately.
func (r *Recorder) Record(entry models.AILog) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("ai log write panicked: %v", rec)
			}
		}()

		if err := db.AppendAILog(r.db, &entry); err != nil {
			log.Printf("ai log write failed: %v", err)
		}
	}()
}

// Wait blocks until in-flight writes finish. Used at shutdown and in
// tests; the request path never calls it.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
