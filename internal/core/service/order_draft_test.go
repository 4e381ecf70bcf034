package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

const testDebounce = 20 * time.Millisecond

// countingSearcher records every executed query, optionally blocking a
// query until its gate channel is closed.
type countingSearcher struct {
	mu      sync.Mutex
	queries []string
	gates   map[string]chan struct{}
	started chan string
}

func newCountingSearcher() *countingSearcher {
	return &countingSearcher{
		gates:   make(map[string]chan struct{}),
		started: make(chan string, 16),
	}
}

func (s *countingSearcher) fn(_ context.Context, query string) ([]domain.Product, error) {
	s.mu.Lock()
	gate := s.gates[query]
	s.mu.Unlock()

	select {
	case s.started <- query:
	default:
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return []domain.Product{{Barcode: query, Name: "product " + query, MRP: 42.5}}, nil
}

func (s *countingSearcher) executed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

func newTestEditor(seed *domain.Order, search ProductSearcher) *DraftEditor {
	return newDraftEditor("draft-1", seed, search, testDebounce, zerolog.Nop())
}

func waitForSuggestions(t *testing.T, e *DraftEditor, index int) []domain.Product {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := e.Suggestions(index)
		if err != nil {
			t.Fatalf("suggestions: %v", err)
		}
		if len(got) > 0 {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("suggestions never arrived for row %d", index)
	return nil
}

// ---------------------------------------------------------------------------
// Structure
// ---------------------------------------------------------------------------

func TestDraftEditor_FreshDraftHasOneEmptyRow(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	v := e.View()
	if len(v.Items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(v.Items))
	}
	if v.Items[0].Barcode != "" || v.Items[0].OrderedQuantity != "" {
		t.Fatalf("fresh row should be empty: %+v", v.Items[0])
	}
	if v.OrderID != "" {
		t.Fatalf("fresh draft should not carry an order id")
	}
}

func TestDraftEditor_SeededFromOrder(t *testing.T) {
	seed := &domain.Order{
		ID: "ord-9",
		OrderItems: []domain.OrderItem{
			{OrderItemID: "oi-1", Barcode: "111", OrderedQuantity: 3, SellingPrice: 12.5},
			{OrderItemID: "oi-2", Barcode: "222", OrderedQuantity: 1, SellingPrice: 30},
		},
	}
	e := newTestEditor(seed, newCountingSearcher().fn)
	defer e.Close()

	v := e.View()
	if v.OrderID != "ord-9" {
		t.Fatalf("order id not carried: %q", v.OrderID)
	}
	if len(v.Items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(v.Items))
	}
	if v.Items[0].OrderedQuantity != "3" || v.Items[0].SellingPrice != "12.5" {
		t.Fatalf("numbers should render as editable strings: %+v", v.Items[0])
	}
	if v.Items[1].SellingPrice != "30" {
		t.Fatalf("whole prices should render without decimals: %q", v.Items[1].SellingPrice)
	}
}

func TestDraftEditor_AddAndRemoveRows(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	v := e.AddItem()
	if len(v.Items) != 2 {
		t.Fatalf("expected 2 rows after add, got %d", len(v.Items))
	}

	if _, err := e.RemoveItem(5); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for bad index, got %v", err)
	}

	v, err := e.RemoveItem(0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(v.Items) != 1 {
		t.Fatalf("expected 1 row after remove, got %d", len(v.Items))
	}
}

func TestDraftEditor_UpdateUnknownField(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	if err := e.UpdateField(0, "color", "red"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if err := e.UpdateField(3, ports.FieldBarcode, "1"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for bad index, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Debounced autocomplete
// ---------------------------------------------------------------------------

func TestDraftEditor_DebounceCollapsesRapidTyping(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)
	defer e.Close()

	// Two keystrokes inside the debounce interval: only the final value
	// may reach the search.
	if err := e.UpdateField(0, ports.FieldBarcode, "12"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := e.UpdateField(0, ports.FieldBarcode, "123"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := waitForSuggestions(t, e, 0)
	if got[0].Barcode != "123" {
		t.Fatalf("suggestions are for %q, want %q", got[0].Barcode, "123")
	}

	time.Sleep(3 * testDebounce)
	if executed := search.executed(); len(executed) != 1 || executed[0] != "123" {
		t.Fatalf("expected exactly one search for the final value, got %v", executed)
	}
}

func TestDraftEditor_StaleResultIsDropped(t *testing.T) {
	search := newCountingSearcher()
	gate := make(chan struct{})
	search.gates["old"] = gate

	e := newTestEditor(nil, search.fn)
	defer e.Close()

	if err := e.UpdateField(0, ports.FieldBarcode, "old"); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Wait until the slow search for "old" is actually running, then
	// overwrite the barcode so its token goes stale.
	select {
	case q := <-search.started:
		if q != "old" {
			t.Fatalf("unexpected search started: %q", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("search for old value never started")
	}
	if err := e.UpdateField(0, ports.FieldBarcode, "new"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := waitForSuggestions(t, e, 0)
	if got[0].Barcode != "new" {
		t.Fatalf("suggestions are for %q, want %q", got[0].Barcode, "new")
	}

	// Release the stale search; its result must not clobber the row.
	close(gate)
	time.Sleep(3 * testDebounce)
	got, err := e.Suggestions(0)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(got) != 1 || got[0].Barcode != "new" {
		t.Fatalf("stale result overwrote the row: %+v", got)
	}
}

func TestDraftEditor_RemovingRowCancelsItsSearch(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)
	defer e.Close()

	e.AddItem()
	if err := e.UpdateField(0, ports.FieldBarcode, "doomed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := e.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}

	time.Sleep(3 * testDebounce)
	if executed := search.executed(); len(executed) != 0 {
		t.Fatalf("removed row's search still ran: %v", executed)
	}
}

func TestDraftEditor_ClearingBarcodeClearsSuggestions(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)
	defer e.Close()

	if err := e.UpdateField(0, ports.FieldBarcode, "123"); err != nil {
		t.Fatalf("update: %v", err)
	}
	waitForSuggestions(t, e, 0)

	if err := e.UpdateField(0, ports.FieldBarcode, ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := e.Suggestions(0)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("clearing the barcode should clear suggestions, got %+v", got)
	}

	time.Sleep(3 * testDebounce)
	if executed := search.executed(); len(executed) != 1 {
		t.Fatalf("empty barcode must not trigger a search: %v", executed)
	}
}

func TestDraftEditor_ClosedEditorArmsNoTimers(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)

	e.Close()
	if err := e.UpdateField(0, ports.FieldBarcode, "123"); err != nil {
		t.Fatalf("update: %v", err)
	}

	time.Sleep(3 * testDebounce)
	if executed := search.executed(); len(executed) != 0 {
		t.Fatalf("closed editor still searched: %v", executed)
	}
	e.mu.Lock()
	pending := len(e.timers)
	e.mu.Unlock()
	if pending != 0 {
		t.Fatalf("closed editor holds %d timers", pending)
	}
}

func TestDraftEditor_FiredTimerIsReleased(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)
	defer e.Close()

	if err := e.UpdateField(0, ports.FieldBarcode, "123"); err != nil {
		t.Fatalf("update: %v", err)
	}
	waitForSuggestions(t, e, 0)

	e.mu.Lock()
	pending := len(e.timers)
	e.mu.Unlock()
	if pending != 0 {
		t.Fatalf("fired timer still tracked: %d entries", pending)
	}
}

func TestDraftEditor_SelectFillsRowFromSuggestion(t *testing.T) {
	search := newCountingSearcher()
	e := newTestEditor(nil, search.fn)
	defer e.Close()

	if err := e.UpdateField(0, ports.FieldBarcode, "890"); err != nil {
		t.Fatalf("update: %v", err)
	}
	waitForSuggestions(t, e, 0)

	if err := e.Select(0, "missing"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for unknown suggestion, got %v", err)
	}

	if err := e.Select(0, "890"); err != nil {
		t.Fatalf("select: %v", err)
	}
	v := e.View()
	if v.Items[0].Barcode != "890" || v.Items[0].SellingPrice != "42.5" {
		t.Fatalf("selection did not fill the row: %+v", v.Items[0])
	}
	if len(v.Items[0].Suggestions) != 0 {
		t.Fatalf("selection should clear suggestions")
	}
}

// ---------------------------------------------------------------------------
// Submission
// ---------------------------------------------------------------------------

func fillRow(t *testing.T, e *DraftEditor, index int, barcode, qty, price string) {
	t.Helper()
	for field, value := range map[string]string{
		ports.FieldBarcode:         barcode,
		ports.FieldOrderedQuantity: qty,
		ports.FieldSellingPrice:    price,
	} {
		if err := e.UpdateField(index, field, value); err != nil {
			t.Fatalf("update %s: %v", field, err)
		}
	}
}

func acceptAll(_ context.Context, items []domain.OrderItem) (*domain.OrderResult, error) {
	verdicts := make([]domain.OrderItem, len(items))
	for i, it := range items {
		it.Status = domain.ItemStatusFulfillable
		verdicts[i] = it
	}
	return &domain.OrderResult{OrderID: "ord-new", OrderItems: verdicts}, nil
}

func TestDraftEditor_SubmitEmptyDraft(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	if _, err := e.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := e.Submit(context.Background(), acceptAll); !errors.Is(err, domain.ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
}

func TestDraftEditor_SubmitValidatesLocallyFirst(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	e.AddItem()
	e.AddItem()
	fillRow(t, e, 0, "", "2", "10")     // missing barcode
	fillRow(t, e, 1, "111", "0", "10")  // non-positive quantity
	fillRow(t, e, 2, "222", "2", "-1")  // negative price

	called := false
	res, err := e.Submit(context.Background(), func(_ context.Context, _ []domain.OrderItem) (*domain.OrderResult, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if called {
		t.Fatalf("locally invalid draft must not reach the backend")
	}
	if res.Accepted {
		t.Fatalf("invalid draft reported as accepted")
	}
	if res.Items[0].Error == "" || res.Items[1].Error == "" || res.Items[2].Error == "" {
		t.Fatalf("every invalid row should carry an error: %+v", res.Items)
	}
}

func TestDraftEditor_SubmitAcceptsZeroPrice(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	fillRow(t, e, 0, "111", "1", "0")
	res, err := e.Submit(context.Background(), acceptAll)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("zero-price line should be legal: %+v", res.Items)
	}
	if res.OrderID != "ord-new" {
		t.Fatalf("order id not reported: %q", res.OrderID)
	}
}

func TestDraftEditor_SubmitKeepsDraftOnUpstreamRejection(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	e.AddItem()
	fillRow(t, e, 0, "111", "2", "10")
	fillRow(t, e, 1, "222", "5", "20")

	reject := func(_ context.Context, items []domain.OrderItem) (*domain.OrderResult, error) {
		verdicts := make([]domain.OrderItem, len(items))
		copy(verdicts, items)
		verdicts[0].Status = domain.ItemStatusValid
		verdicts[1].Status = domain.ItemStatusUnfulfillable
		verdicts[1].Message = "out of stock"
		return &domain.OrderResult{OrderItems: verdicts}, nil
	}

	res, err := e.Submit(context.Background(), reject)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Accepted {
		t.Fatalf("rejected submission reported as accepted")
	}
	if res.Items[0].Error != "" {
		t.Fatalf("accepted line should stay clean: %+v", res.Items[0])
	}
	if res.Items[1].Error != "out of stock" {
		t.Fatalf("rejected line should carry the backend message: %+v", res.Items[1])
	}

	// The draft survives for correction, and a corrected resubmit clears
	// the stale error.
	v := e.View()
	if len(v.Items) != 2 {
		t.Fatalf("draft should be retained after rejection")
	}
	fillRow(t, e, 1, "222", "1", "20")
	res, err = e.Submit(context.Background(), acceptAll)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("corrected resubmit should be accepted: %+v", res.Items)
	}
	if res.Items[1].Error != "" {
		t.Fatalf("stale error survived resubmit: %+v", res.Items[1])
	}
}

func TestDraftEditor_SubmitPropagatesTransportError(t *testing.T) {
	e := newTestEditor(nil, newCountingSearcher().fn)
	defer e.Close()

	fillRow(t, e, 0, "111", "1", "5")
	boom := errors.New("backend unreachable")
	if _, err := e.Submit(context.Background(), func(_ context.Context, _ []domain.OrderItem) (*domain.OrderResult, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected transport error to surface, got %v", err)
	}

	if len(e.View().Items) != 1 {
		t.Fatalf("draft should survive a transport error")
	}
}
