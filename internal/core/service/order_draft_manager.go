package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api/metrics"
	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

const (
	draftIdleTTL     = 30 * time.Minute
	draftSweepPeriod = 5 * time.Minute
)

// DraftManager owns the live order drafts, keyed by session so users
// cannot touch each other's work in progress. It implements
// ports.DraftService on top of DraftEditor.
type DraftManager struct {
	mu     sync.Mutex
	drafts map[string]map[string]*DraftEditor

	products   ports.ProductsAPI
	orders     ports.OrdersAPI
	store      ports.SessionStore
	searchSize int
	debounce   time.Duration
	log        zerolog.Logger
}

func NewDraftManager(products ports.ProductsAPI, orders ports.OrdersAPI, store ports.SessionStore, searchSize int, log zerolog.Logger) *DraftManager {
	if searchSize <= 0 {
		searchSize = 8
	}
	return &DraftManager{
		drafts:     make(map[string]map[string]*DraftEditor),
		products:   products,
		orders:     orders,
		store:      store,
		searchSize: searchSize,
		debounce:   defaultDebounce,
		log:        log,
	}
}

// Start launches the idle-draft sweeper. It stops when ctx is cancelled.
func (m *DraftManager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(draftSweepPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *DraftManager) sweep() {
	cutoff := time.Now().Add(-draftIdleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, byID := range m.drafts {
		for id, e := range byID {
			if e.idleSince().Before(cutoff) {
				e.Close()
				delete(byID, id)
				m.log.Debug().Str("draft_id", id).Msg("idle draft dropped")
			}
		}
		if len(byID) == 0 {
			delete(m.drafts, sid)
		}
	}
}

// Create opens a new draft for sid, optionally seeded from an order.
func (m *DraftManager) Create(_ context.Context, sid string, seed *domain.Order) (*ports.DraftView, error) {
	id := uuid.NewString()
	editor := newDraftEditor(id, seed, m.searcher(sid), m.debounce, m.log)

	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.drafts[sid]
	if !ok {
		byID = make(map[string]*DraftEditor)
		m.drafts[sid] = byID
	}
	byID[id] = editor
	return editor.View(), nil
}

// searcher binds barcode autocomplete to the product search endpoint,
// resolving the upstream cookie at fire time so a refreshed session is
// honoured.
func (m *DraftManager) searcher(sid string) ProductSearcher {
	return func(ctx context.Context, query string) ([]domain.Product, error) {
		upstream, _ := m.store.Upstream(ctx, sid)
		if upstream == "" {
			return nil, domain.ErrSessionExpired
		}
		page, err := m.products.Search(ctx, upstream, "barcode", query, 0, m.searchSize)
		if err != nil {
			return nil, err
		}
		return page.Content, nil
	}
}

func (m *DraftManager) editor(sid, draftID string) (*DraftEditor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.drafts[sid][draftID]; ok {
		return e, nil
	}
	return nil, domain.ErrDraftNotFound
}

func (m *DraftManager) Get(_ context.Context, sid, draftID string) (*ports.DraftView, error) {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return nil, err
	}
	return e.View(), nil
}

func (m *DraftManager) AddItem(_ context.Context, sid, draftID string) (*ports.DraftView, error) {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return nil, err
	}
	return e.AddItem(), nil
}

func (m *DraftManager) RemoveItem(_ context.Context, sid, draftID string, index int) (*ports.DraftView, error) {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return nil, err
	}
	return e.RemoveItem(index)
}

func (m *DraftManager) UpdateField(_ context.Context, sid, draftID string, index int, field, value string) error {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return err
	}
	return e.UpdateField(index, field, value)
}

func (m *DraftManager) Suggestions(_ context.Context, sid, draftID string, index int) ([]domain.Product, error) {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return nil, err
	}
	return e.Suggestions(index)
}

func (m *DraftManager) Select(_ context.Context, sid, draftID string, index int, barcode string) error {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return err
	}
	return e.Select(index, barcode)
}

// Submit pushes the draft upstream. A fully accepted draft is discarded;
// anything else stays on screen for correction.
func (m *DraftManager) Submit(ctx context.Context, sid, draftID string) (*ports.DraftSubmitResult, error) {
	e, err := m.editor(sid, draftID)
	if err != nil {
		return nil, err
	}

	upstream, _ := m.store.Upstream(ctx, sid)
	if upstream == "" {
		return nil, domain.ErrSessionExpired
	}

	// Snapshot before e.Submit: the closure runs under the editor lock,
	// so it must not call back into the editor.
	orderID := e.View().OrderID
	submit := func(ctx context.Context, items []domain.OrderItem) (*domain.OrderResult, error) {
		if orderID != "" {
			return m.orders.Edit(ctx, upstream, orderID, items)
		}
		return m.orders.Create(ctx, upstream, items)
	}

	res, err := e.Submit(ctx, submit)
	if err != nil {
		metrics.DraftSubmitsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if res.Accepted {
		metrics.DraftSubmitsTotal.WithLabelValues("accepted").Inc()
		_ = m.Discard(ctx, sid, draftID)
	} else {
		metrics.DraftSubmitsTotal.WithLabelValues("rejected").Inc()
	}
	return res, nil
}

func (m *DraftManager) Discard(_ context.Context, sid, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.drafts[sid][draftID]
	if !ok {
		return domain.ErrDraftNotFound
	}
	e.Close()
	delete(m.drafts[sid], draftID)
	if len(m.drafts[sid]) == 0 {
		delete(m.drafts, sid)
	}
	return nil
}
