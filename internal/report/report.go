// Package report renders inventory and loss-list documents. Generation is a
// long-running task in its own concurrency domain: it reads catalog
// snapshots, never mutates the entity store, and supports mid-flight
// cancellation from the caller.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/mzajc/homevault/internal/store"
	"github.com/mzajc/homevault/internal/tier"
)

// Report kinds.
type Kind string

const (
	KindFullInventory Kind = "full_inventory"
	KindLossList      Kind = "loss_list"
)

// Job states. Transitions: idle → preparing → generating → complete,
// failed or cancelled.
type State string

const (
	StateIdle       State = "idle"
	StatePreparing  State = "preparing"
	StateGenerating State = "generating"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// Status is a point-in-time snapshot of a job.
type Status struct {
	State    State
	Progress float64 // 0..1, meaningful while generating
	Path     string  // set when complete
	Err      error   // set when failed
}

// Job tracks one report generation. Status() may be polled from any
// goroutine; Done() closes when the job reaches a terminal state.
type Job struct {
	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	done   chan struct{}
}

// Status returns the current job snapshot.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Done closes when the job completes, fails or is cancelled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel requests a mid-flight stop. Safe to call at any time.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the job finishes or ctx expires.
func (j *Job) Wait(ctx context.Context) (Status, error) {
	select {
	case <-j.done:
		return j.Status(), nil
	case <-ctx.Done():
		return j.Status(), ctx.Err()
	}
}

func (j *Job) set(update func(*Status)) {
	j.mu.Lock()
	update(&j.status)
	j.mu.Unlock()
}

// Generator renders report documents into Dir. Reads go straight to the
// catalog database as snapshot queries.
type Generator struct {
	DB     *sql.DB
	Dir    string
	Limits tier.Limits
	Pro    bool
}

// document is everything a render pass needs, fetched up front.
type document struct {
	kind       Kind
	created    time.Time
	summary    store.Summary
	rooms      []store.GroupStat
	categories []store.GroupStat
	items      []itemRow
}

// Generate starts rendering a report and returns immediately. Cancel the
// job (or the parent ctx) to stop it mid-generation; an empty catalog still
// produces a valid zero-totals document.
func (g *Generator) Generate(ctx context.Context, kind Kind) *Job {
	ctx, cancel := context.WithCancel(ctx)
	job := &Job{
		status: Status{State: StateIdle},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		defer close(job.done)

		path, err := g.run(ctx, kind, job)
		switch {
		case ctx.Err() != nil:
			job.set(func(s *Status) { s.State = StateCancelled })
			slog.Info("report cancelled", "kind", kind)
		case err != nil:
			job.set(func(s *Status) { s.State = StateFailed; s.Err = err })
			slog.Error("report failed", "kind", kind, "error", err)
		default:
			job.set(func(s *Status) { s.State = StateComplete; s.Progress = 1; s.Path = path })
			slog.Info("report complete", "kind", kind, "path", path)
		}
	}()

	return job
}

func (g *Generator) run(ctx context.Context, kind Kind, job *Job) (string, error) {
	job.set(func(s *Status) { s.State = StatePreparing })

	doc, err := g.prepare(ctx, kind)
	if err != nil {
		return "", err
	}

	job.set(func(s *Status) { s.State = StateGenerating; s.Progress = 0 })

	name := fmt.Sprintf("%s-%s.pdf", kind, doc.created.Format("20060102-150405"))
	path := filepath.Join(g.Dir, name)

	if err := renderPDF(ctx, doc, path, func(p float64) {
		job.set(func(s *Status) { s.Progress = p })
	}); err != nil {
		return "", err
	}
	return path, nil
}

// prepare fetches all aggregates and item rows for the document.
func (g *Generator) prepare(ctx context.Context, kind Kind) (*document, error) {
	summary, err := store.GetSummary(ctx, g.DB)
	if err != nil {
		return nil, err
	}
	rooms, err := store.StatsByRoom(ctx, g.DB)
	if err != nil {
		return nil, err
	}
	categories, err := store.StatsByCategory(ctx, g.DB)
	if err != nil {
		return nil, err
	}

	sort := "name"
	if kind == KindLossList {
		// Loss lists lead with the most valuable items.
		sort = "value"
	}
	items, err := store.ListItems(ctx, g.DB, store.ItemFilter{Sort: sort})
	if err != nil {
		return nil, err
	}

	if kind == KindLossList {
		if limit := g.Limits.LossListCap(g.Pro); limit > 0 && len(items) > limit {
			items = items[:limit]
		}
	}

	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, newItemRow(item))
	}

	return &document{
		kind:       kind,
		created:    time.Now(),
		summary:    summary,
		rooms:      rooms,
		categories: categories,
		items:      rows,
	}, nil
}
