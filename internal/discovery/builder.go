// Package discovery implements the "build your own sample set" flow: up to
// six slots, each holding a distinct sample title, committed as a single
// composite cart line priced as the sum of the chosen samples.
package discovery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
)

// SlotCount is fixed by the page layout; it is also the upper bound on set
// size, so only the lower bound needs an explicit check.
const SlotCount = 6

// SamplePool re-reads live sample stock at commit time.
type SamplePool interface {
	GetSample(ctx context.Context, id string) (*domain.Sample, error)
}

// DuplicateSelectionError rejects picking a title already held by another
// slot.
type DuplicateSelectionError struct {
	Title string
}

func (e *DuplicateSelectionError) Error() string {
	return fmt.Sprintf("%q is already selected", e.Title)
}

// SampleUnavailableError fails a commit naming the first sample that is
// unknown or out of stock.
type SampleUnavailableError struct {
	Title string
}

func (e *SampleUnavailableError) Error() string {
	return fmt.Sprintf("sample %q is currently out of stock", e.Title)
}

// TooFewSelectionsError fails a commit below the minimum set size.
type TooFewSelectionsError struct {
	Min int
}

func (e *TooFewSelectionsError) Error() string {
	return fmt.Sprintf("select at least %d samples", e.Min)
}

// Summary is the running breakdown shown while picking.
type Summary struct {
	Count          int
	Total          decimal.Decimal
	AveragePerItem decimal.Decimal
}

// Builder tracks slot selections against a snapshot of the sample catalog.
type Builder struct {
	slots    [SlotCount]string // sample title per slot, "" when empty
	byTitle  map[string]domain.Sample
	min      int
	setTitle string
}

// NewBuilder snapshots the available samples. min is the smallest committable
// set; setTitle names the synthesized cart line.
func NewBuilder(samples []domain.Sample, min int, setTitle string) *Builder {
	byTitle := make(map[string]domain.Sample, len(samples))
	for _, s := range samples {
		byTitle[s.Title] = s
	}
	return &Builder{byTitle: byTitle, min: min, setTitle: setTitle}
}

// SelectSlot sets slot i to the given sample title, or clears it when title
// is empty. A title held by a different slot is rejected without mutating
// anything.
func (b *Builder) SelectSlot(i int, title string) error {
	if i < 0 || i >= SlotCount {
		return fmt.Errorf("slot %d out of range", i)
	}
	if title == "" {
		b.slots[i] = ""
		return nil
	}
	if _, ok := b.byTitle[title]; !ok {
		return fmt.Errorf("unknown sample %q", title)
	}
	for j, held := range b.slots {
		if j != i && held == title {
			return &DuplicateSelectionError{Title: title}
		}
	}
	b.slots[i] = title
	return nil
}

// Selected returns the chosen titles in slot order.
func (b *Builder) Selected() []string {
	var out []string
	for _, t := range b.slots {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Summary totals the current selection. Average is zero for an empty set.
func (b *Builder) Summary() Summary {
	selected := b.Selected()
	total := decimal.Zero
	for _, title := range selected {
		total = total.Add(b.byTitle[title].Price)
	}
	sum := Summary{Count: len(selected), Total: total}
	if sum.Count > 0 {
		sum.AveragePerItem = total.Div(decimal.NewFromInt(int64(sum.Count)))
	} else {
		sum.AveragePerItem = decimal.Zero
	}
	return sum
}

// Commit re-validates every selected sample against live stock, then
// synthesizes one composite line and adds it to the cart. Nothing is
// committed when any sample is missing or exhausted.
func (b *Builder) Commit(ctx context.Context, pool SamplePool, store *cart.Store) (cart.Line, error) {
	selected := b.Selected()
	if len(selected) < b.min {
		return cart.Line{}, &TooFewSelectionsError{Min: b.min}
	}

	components := make([]cart.Component, 0, len(selected))
	total := decimal.Zero
	for _, title := range selected {
		snap := b.byTitle[title]
		live, err := pool.GetSample(ctx, snap.ID)
		if err != nil || live == nil || live.Stock < 1 {
			return cart.Line{}, &SampleUnavailableError{Title: title}
		}
		components = append(components, cart.Component{
			SampleID: snap.ID,
			Title:    snap.Title,
			Price:    snap.Price,
		})
		total = total.Add(snap.Price)
	}

	line := cart.Line{
		ID:        "set-" + uuid.NewString(),
		Kind:      cart.KindComposite,
		Title:     b.setTitle,
		UnitPrice: total,
		Quantity:  1,
		// no ceiling: the real constraint is per-component stock,
		// checked here and again at checkout
		Components: components,
	}
	if err := store.Add(ctx, line); err != nil {
		return cart.Line{}, err
	}
	return line, nil
}
