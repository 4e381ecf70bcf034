package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

const (
	defaultDebounce = 300 * time.Millisecond
	searchTimeout   = 5 * time.Second
)

// ProductSearcher resolves barcode autocomplete queries.
type ProductSearcher func(ctx context.Context, query string) ([]domain.Product, error)

// OrderSubmitter sends the converted draft upstream (create or edit).
type OrderSubmitter func(ctx context.Context, items []domain.OrderItem) (*domain.OrderResult, error)

// draftRow is one editable line. Rows carry a stable id so debounce
// timers and sequence tokens survive index shifts from removals.
type draftRow struct {
	id   int
	item ports.DraftItemView
	// seq invalidates in-flight autocomplete responses: a result is only
	// applied while its token is still the row's current one.
	seq uint64
}

// DraftEditor holds the order line-item editing state machine: an ordered
// list of independently editable rows with per-row debounced barcode
// autocomplete. All methods are safe for concurrent use.
type DraftEditor struct {
	mu        sync.Mutex
	id        string
	orderID   string
	rows      []*draftRow
	nextRowID int
	timers    map[int]*time.Timer
	search    ProductSearcher
	debounce  time.Duration
	lastTouch time.Time
	closed    bool
	log       zerolog.Logger
}

// newDraftEditor builds an editor, optionally seeded from an existing
// order for the edit/retry flow. A fresh draft starts with one empty row.
func newDraftEditor(id string, seed *domain.Order, search ProductSearcher, debounce time.Duration, log zerolog.Logger) *DraftEditor {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	e := &DraftEditor{
		id:        id,
		search:    search,
		debounce:  debounce,
		timers:    make(map[int]*time.Timer),
		lastTouch: time.Now(),
		log:       log,
	}

	if seed == nil {
		e.appendEmptyRow()
		return e
	}

	e.orderID = seed.ID
	for _, it := range seed.OrderItems {
		row := &draftRow{id: e.nextRowID}
		e.nextRowID++
		row.item = ports.DraftItemView{
			OrderItemID:     it.OrderItemID,
			Barcode:         it.Barcode,
			OrderedQuantity: strconv.Itoa(it.OrderedQuantity),
			SellingPrice:    formatPrice(it.SellingPrice),
		}
		e.rows = append(e.rows, row)
	}
	if len(e.rows) == 0 {
		e.appendEmptyRow()
	}
	return e
}

func (e *DraftEditor) appendEmptyRow() {
	row := &draftRow{id: e.nextRowID}
	e.nextRowID++
	e.rows = append(e.rows, row)
}

// View returns a snapshot of the draft.
func (e *DraftEditor) View() *ports.DraftView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *DraftEditor) viewLocked() *ports.DraftView {
	v := &ports.DraftView{ID: e.id, OrderID: e.orderID, Items: make([]ports.DraftItemView, len(e.rows))}
	for i, row := range e.rows {
		v.Items[i] = row.item
	}
	return v
}

// AddItem appends an empty row.
func (e *DraftEditor) AddItem() *ports.DraftView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendEmptyRow()
	e.lastTouch = time.Now()
	return e.viewLocked()
}

// RemoveItem deletes the row at index, cancelling its pending
// autocomplete timer. The draft may become empty; submit rejects that.
func (e *DraftEditor) RemoveItem(index int) (*ports.DraftView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.rows) {
		return nil, domain.ErrItemNotFound
	}
	row := e.rows[index]
	e.cancelTimerLocked(row.id)
	row.seq++
	e.rows = append(e.rows[:index], e.rows[index+1:]...)
	e.lastTouch = time.Now()
	return e.viewLocked(), nil
}

// UpdateField edits one field of one row and clears that row's prior
// validation error. A barcode edit additionally resets the row's
// suggestions and (re)schedules its debounced search; only that row's
// timer is touched.
func (e *DraftEditor) UpdateField(index int, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.rows) {
		return domain.ErrItemNotFound
	}
	row := e.rows[index]
	row.item.Error = ""
	e.lastTouch = time.Now()

	switch field {
	case ports.FieldOrderedQuantity:
		row.item.OrderedQuantity = value
	case ports.FieldSellingPrice:
		row.item.SellingPrice = value
	case ports.FieldBarcode:
		row.item.Barcode = value
		row.item.Suggestions = nil
		e.cancelTimerLocked(row.id)
		row.seq++
		if query := strings.TrimSpace(value); query != "" {
			e.scheduleSearchLocked(row.id, row.seq, query)
		}
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

// scheduleSearchLocked arms the row's debounce timer. When it fires, the
// search runs off the editor lock; the result is applied only if the row
// still exists and the sequence token is still current. A closed editor
// never arms a new timer.
func (e *DraftEditor) scheduleSearchLocked(rowID int, seq uint64, query string) {
	if e.closed {
		return
	}
	e.timers[rowID] = time.AfterFunc(e.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		products, err := e.search(ctx, query)

		e.mu.Lock()
		defer e.mu.Unlock()
		row := e.rowByIDLocked(rowID)
		if row == nil || row.seq != seq || e.closed {
			return
		}
		// The token is still current, so the timers entry is this fired
		// timer; drop it rather than letting it linger until the next edit.
		delete(e.timers, rowID)
		if err != nil {
			// Autocomplete is advisory; failures drop the suggestions.
			e.log.Debug().Err(err).Str("query", query).Msg("barcode search failed")
			return
		}
		row.item.Suggestions = products
	})
}

// Suggestions returns the row's current autocomplete results.
func (e *DraftEditor) Suggestions(index int) ([]domain.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.rows) {
		return nil, domain.ErrItemNotFound
	}
	return e.rows[index].item.Suggestions, nil
}

// Select applies a suggestion to the row: barcode and price are filled
// from the product and the suggestion list is cleared.
func (e *DraftEditor) Select(index int, barcode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.rows) {
		return domain.ErrItemNotFound
	}
	row := e.rows[index]
	for _, p := range row.item.Suggestions {
		if p.Barcode != barcode {
			continue
		}
		e.cancelTimerLocked(row.id)
		row.seq++
		row.item.Barcode = p.Barcode
		row.item.SellingPrice = formatPrice(p.MRP)
		row.item.Suggestions = nil
		row.item.Error = ""
		e.lastTouch = time.Now()
		return nil
	}
	return domain.ErrItemNotFound
}

// Submit converts the rows to numbers, validates them locally, and sends
// them upstream. Per-line rejections are written back onto the rows and
// the draft is kept; only a fully accepted submission reports success.
func (e *DraftEditor) Submit(ctx context.Context, submit OrderSubmitter) (*ports.DraftSubmitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.rows) == 0 {
		return nil, domain.ErrEmptyDraft
	}

	items := make([]domain.OrderItem, len(e.rows))
	invalid := false
	for i, row := range e.rows {
		row.item.Error = ""
		item, msg := convertRow(row.item)
		if msg != "" {
			row.item.Error = msg
			invalid = true
			continue
		}
		items[i] = item
	}
	if invalid {
		return &ports.DraftSubmitResult{Accepted: false, Items: e.viewLocked().Items}, nil
	}

	res, err := submit(ctx, items)
	if err != nil {
		return nil, err
	}

	rejected := false
	for i, verdict := range res.OrderItems {
		if i >= len(e.rows) {
			break
		}
		if verdict.Accepted() {
			continue
		}
		msg := verdict.Message
		if msg == "" {
			msg = "item could not be fulfilled"
		}
		e.rows[i].item.Error = msg
		rejected = true
	}

	e.lastTouch = time.Now()
	if rejected {
		return &ports.DraftSubmitResult{Accepted: false, Items: e.viewLocked().Items}, nil
	}
	return &ports.DraftSubmitResult{Accepted: true, OrderID: res.OrderID, Items: e.viewLocked().Items}, nil
}

// convertRow turns raw string input into an order item, or explains why
// it cannot. Quantity must be a positive integer; price must be a number
// >= 0 (zero-price promo lines are legal).
func convertRow(item ports.DraftItemView) (domain.OrderItem, string) {
	barcode := strings.TrimSpace(item.Barcode)
	if barcode == "" {
		return domain.OrderItem{}, "barcode is required"
	}
	qty, err := strconv.Atoi(strings.TrimSpace(item.OrderedQuantity))
	if err != nil || qty <= 0 {
		return domain.OrderItem{}, "quantity must be a positive integer"
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(item.SellingPrice), 64)
	if err != nil || price < 0 {
		return domain.OrderItem{}, "selling price must be a number >= 0"
	}
	return domain.OrderItem{
		OrderItemID:     item.OrderItemID,
		Barcode:         barcode,
		OrderedQuantity: qty,
		SellingPrice:    price,
	}, ""
}

// Close cancels all pending timers. The editor must not be used after.
func (e *DraftEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
	for _, row := range e.rows {
		row.seq++
	}
}

func (e *DraftEditor) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTouch
}

func (e *DraftEditor) rowByIDLocked(rowID int) *draftRow {
	for _, row := range e.rows {
		if row.id == rowID {
			return row
		}
	}
	return nil
}

func (e *DraftEditor) cancelTimerLocked(rowID int) {
	if t, ok := e.timers[rowID]; ok {
		t.Stop()
		delete(e.timers, rowID)
	}
}

// formatPrice renders a price the way the input field expects it: no
// trailing zeros, no exponent.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
