package session

import (
	"context"
	"sync"

	"github.com/edubook/edubook/internal/utils"
	"github.com/edubook/edubook/pkg/storage"
)

// Recorder drains persistence commands into the store on a background
// goroutine. Write failures are logged and dropped; the in-memory session
// that produced them is never rolled back.
type Recorder struct {
	db     *storage.DB
	userID string

	ch   chan Command
	wg   sync.WaitGroup
	once sync.Once
}

// NewRecorder starts the drain goroutine.
func NewRecorder(db *storage.DB, userID string) *Recorder {
	r := &Recorder{
		db:     db,
		userID: userID,
		ch:     make(chan Command, 256),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Enqueue hands a command to the recorder. If the queue is saturated the
// write is applied inline instead of blocking the caller indefinitely.
func (r *Recorder) Enqueue(cmd Command) {
	select {
	case r.ch <- cmd:
	default:
		r.apply(cmd)
	}
}

// Close flushes outstanding commands and waits for the worker to finish.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.ch)
	})
	r.wg.Wait()
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for cmd := range r.ch {
		r.apply(cmd)
	}
}

func (r *Recorder) apply(cmd Command) {
	ctx := context.Background()
	switch cmd := cmd.(type) {
	case LedgerUpsert:
		if err := r.db.UpsertLedgerEntry(ctx, r.userID, cmd.Identity, cmd.Entry); err != nil {
			utils.Log.Warnf("ledger write failed for %s: %v", cmd.Identity, err)
		}
	case SnapshotSave:
		if err := r.db.SaveSnapshot(ctx, r.userID, cmd.UploadID, cmd.Records); err != nil {
			utils.Log.Warnf("snapshot write failed for upload %s: %v", cmd.UploadID, err)
		}
	}
}
