package tui

import (
	"sync"
	"time"

	"github.com/vovakirdan/wordguess/internal/reward"
)

// toast is one reward record on screen.
type toast struct {
	rec     *reward.Record
	expires time.Time // Zero while pinned
}

// toastPresenter implements reward.Presenter for the play screen.
// Records are dismissed by Expire, which the play model calls on every tick.
type toastPresenter struct {
	mu           sync.Mutex
	now          func() time.Time
	dismissAfter time.Duration
	toasts       []toast
}

func newToastPresenter(now func() time.Time) *toastPresenter {
	return &toastPresenter{now: now, dismissAfter: reward.DefaultDismissAfter}
}

// Show implements reward.Presenter.
func (p *toastPresenter) Show(rec *reward.Record, dismissAfter time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dismissAfter = dismissAfter
	t := toast{rec: rec}
	if dismissAfter > 0 && !rec.Pinned {
		t.expires = p.now().Add(dismissAfter)
	}
	p.remove(rec)
	p.toasts = append(p.toasts, t)
}

// Hide implements reward.Presenter.
func (p *toastPresenter) Hide(rec *reward.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remove(rec)
}

// Refresh implements reward.Presenter. Unpinning restarts the dismiss timer.
func (p *toastPresenter) Refresh(rec *reward.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.toasts {
		if p.toasts[i].rec != rec {
			continue
		}
		switch {
		case rec.Pinned:
			p.toasts[i].expires = time.Time{}
		case p.dismissAfter > 0:
			p.toasts[i].expires = p.now().Add(p.dismissAfter)
		}
		return
	}
	// Pinning a record that already left the screen brings it back.
	if rec.Pinned {
		p.toasts = append(p.toasts, toast{rec: rec})
	}
}

// Expire drops every unpinned toast whose time is up.
func (p *toastPresenter) Expire(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.toasts[:0]
	for _, t := range p.toasts {
		if t.expires.IsZero() || now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	p.toasts = kept
}

// Visible returns the records on screen, oldest first.
func (p *toastPresenter) Visible() []*reward.Record {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*reward.Record, len(p.toasts))
	for i, t := range p.toasts {
		out[i] = t.rec
	}
	return out
}

func (p *toastPresenter) remove(rec *reward.Record) {
	for i, t := range p.toasts {
		if t.rec == rec {
			p.toasts = append(p.toasts[:i], p.toasts[i+1:]...)
			return
		}
	}
}
