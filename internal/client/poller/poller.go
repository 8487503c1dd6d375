// Package poller keeps a client side view of in-flight documents in sync with the API.
package poller

import (
	"budget-monitor/internal/client"
	"budget-monitor/internal/core/domain"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// API is the part of the REST client the poller reads from
type API interface {
	GetDocument(ctx context.Context, id uuid.UUID) (*client.Document, error)
	GetProgress(ctx context.Context, id uuid.UUID) (*client.Progress, error)
}

// Update is the last known state of a document
type Update struct {
	Document  client.Document
	Progress  *client.Progress
	FetchedAt time.Time
}

type Config struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	Clock          Clock

	// OnUpdate fires when the status or the progress of a document changed
	OnUpdate func(Update)
	// OnTerminal fires once per tracking when a document reaches completed or failed
	OnTerminal func(client.Document)
	// OnError fires for a failed poll of one document; transient failures are retried next cycle
	OnError func(id uuid.UUID, err error)
}

type entry struct {
	last     *Update
	tracked  bool
	notified bool
}

// Poller polls tracked documents until none of them is pending or processing.
// All cycles run on one goroutine and never overlap.
type Poller struct {
	api    API
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	stopped bool

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func New(api API, cfg Config, logger *slog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	return &Poller{
		api:     api,
		cfg:     cfg,
		logger:  logger,
		entries: make(map[uuid.UUID]*entry),
		wake:    make(chan struct{}, 1),
	}
}

// Track starts watching documents that were just uploaded or triggered.
// It re-arms an idle poller and allows a new terminal notification per id.
func (p *Poller) Track(ids ...uuid.UUID) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	for _, id := range ids {
		e := p.entry(id)
		e.tracked = true
		e.notified = false
	}
	p.mu.Unlock()
	p.signal()
}

// Observe seeds the view from a listing, only in-flight documents get tracked
func (p *Poller) Observe(docs ...client.Document) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	now := p.cfg.Clock.Now()
	armed := false
	for _, doc := range docs {
		e := p.entry(doc.ID)
		e.last = &Update{Document: doc, FetchedAt: now}
		if doc.Status.IsInFlight() {
			if !e.tracked {
				e.notified = false
			}
			e.tracked = true
			armed = true
		} else {
			e.tracked = false
		}
	}
	p.mu.Unlock()
	if armed {
		p.signal()
	}
}

func (p *Poller) entry(id uuid.UUID) *entry {
	e, ok := p.entries[id]
	if !ok {
		e = &entry{}
		p.entries[id] = e
	}
	return e
}

func (p *Poller) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Start runs the poll loop until ctx is done or Stop is called
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil || p.stopped {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
}

// Stop ends the loop and waits for it, no callback fires once Stop returns
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Tracked returns the ids still being polled
func (p *Poller) Tracked() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []uuid.UUID
	for id, e := range p.entries {
		if e.tracked {
			ids = append(ids, id)
		}
	}
	return ids
}

// Snapshot returns the last known state of every document seen so far
func (p *Poller) Snapshot() map[uuid.UUID]Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uuid.UUID]Update, len(p.entries))
	for id, e := range p.entries {
		if e.last != nil {
			out[id] = *e.last
		}
	}
	return out
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}
		if len(p.Tracked()) == 0 {
			p.logger.Debug("nothing in flight, poller idle")
			select {
			case <-ctx.Done():
				return
			case <-p.wake:
				continue
			}
		}

		timer := p.cfg.Clock.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C():
		}

		p.cycle(ctx)
	}
}

func (p *Poller) cycle(ctx context.Context) {
	for _, id := range p.Tracked() {
		if ctx.Err() != nil {
			return
		}
		doc, progress, err := p.fetch(ctx, id)
		if ctx.Err() != nil {
			// torn down while the request was in flight
			return
		}
		if err != nil {
			p.handleError(id, err)
			continue
		}
		p.apply(ctx, id, doc, progress)
	}
}

func (p *Poller) fetch(ctx context.Context, id uuid.UUID) (*client.Document, *client.Progress, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	doc, err := p.api.GetDocument(reqCtx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status != domain.DocumentStatusProcessing {
		return doc, nil, nil
	}

	progress, err := p.api.GetProgress(reqCtx, id)
	if err != nil {
		// the status alone is still worth showing
		p.logger.Warn("could not fetch progress", "document_id", id, "error", err)
		return doc, nil, nil
	}
	return doc, progress, nil
}

func (p *Poller) handleError(id uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		p.logger.Info("document is gone, no longer tracked", "document_id", id)
		p.mu.Lock()
		delete(p.entries, id)
		p.mu.Unlock()
	case !client.IsTransient(err):
		p.logger.Error("poll rejected, no longer tracked", "document_id", id, "error", err)
		p.untrack(id)
	default:
		p.logger.Warn("poll failed, retrying next cycle", "document_id", id, "error", err)
	}
	if p.cfg.OnError != nil {
		p.cfg.OnError(id, err)
	}
}

func (p *Poller) untrack(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[id]; ok {
		e.tracked = false
	}
}

func (p *Poller) apply(ctx context.Context, id uuid.UUID, doc *client.Document, progress *client.Progress) {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return
	}

	update := Update{Document: *doc, Progress: progress, FetchedAt: p.cfg.Clock.Now()}
	changed := changedSince(e.last, update)
	e.last = &update

	terminal := false
	if doc.Status.IsTerminal() {
		e.tracked = false
		if !e.notified {
			e.notified = true
			terminal = true
		}
	} else {
		e.tracked = true
	}
	p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if changed && p.cfg.OnUpdate != nil {
		p.cfg.OnUpdate(update)
	}
	if terminal {
		p.logger.Info("document reached a final status", "document_id", id, "status", doc.Status)
		if p.cfg.OnTerminal != nil {
			p.cfg.OnTerminal(*doc)
		}
	}
}

func changedSince(last *Update, next Update) bool {
	if last == nil {
		return true
	}
	if last.Document.Status != next.Document.Status || last.Document.Version != next.Document.Version {
		return true
	}
	if (last.Progress == nil) != (next.Progress == nil) {
		return true
	}
	if next.Progress != nil && *last.Progress != *next.Progress {
		return true
	}
	return false
}
