package session

import (
	"context"
	"log/slog"
	"sync"

	"vayam/models"
)

// VoteWriter issues the durable vote write. The vote repository satisfies
// this through a thin adapter; tests substitute fakes.
type VoteWriter interface {
	SubmitVote(ctx context.Context, uid, zid, tid uint, value int) error
}

// Dispatcher couples a Session to a VoteWriter: the local advance happens
// immediately under its lock while the durable write runs on its own
// goroutine. A failed write rolls back only the local copy; the cursor is
// never rewound, and no retry is attempted. A DuplicateVote response is
// benign and treated as success.
type Dispatcher struct {
	mu      sync.Mutex
	session *Session
	writer  VoteWriter
	uid     uint
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher wraps session for concurrent vote dispatch on behalf of uid.
func NewDispatcher(session *Session, writer VoteWriter, uid uint, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		session: session,
		writer:  writer,
		uid:     uid,
		logger:  logger,
	}
}

// CastVote applies the vote optimistically and dispatches the write. The
// returned error covers only local validation; write failures are absorbed
// into a rollback of the local tallies.
func (d *Dispatcher) CastVote(ctx context.Context, value int) error {
	d.mu.Lock()
	req, err := d.session.Vote(value)
	d.mu.Unlock()
	if err != nil || req == nil {
		return err
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Exactly one attempt per vote action.
		err := d.writer.SubmitVote(ctx, d.uid, req.ZID, req.TID, req.Value)
		if err == nil || models.IsDuplicateVote(err) {
			return
		}
		d.logger.Warn("vote write failed, rolling back local copy",
			slog.Uint64("tid", uint64(req.TID)),
			slog.Int("value", req.Value),
			slog.String("error", err.Error()),
		)
		d.mu.Lock()
		d.session.Rollback(req)
		d.mu.Unlock()
	}()
	return nil
}

// Skip advances past the current comment without a ledger write.
func (d *Dispatcher) Skip() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Skip()
}

// Session runs fn with exclusive access to the underlying session.
func (d *Dispatcher) Session(fn func(*Session)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.session)
}

// Wait blocks until all in-flight writes have settled. Used by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
