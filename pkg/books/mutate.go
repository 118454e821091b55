package books

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrNoMatchingRecords means a scoped operation touched zero records.
	ErrNoMatchingRecords = errors.New("no matching records")
	// ErrMissingSelection means a bulk edit had no names or no field values.
	ErrMissingSelection = errors.New("nothing selected")
)

// Mutation is one edit command against a working list. Commands are applied
// through Apply, which recomputes FinalPrice for every touched record except
// on rename: editing bookName never reprices.
type Mutation interface {
	isMutation()
}

// Point edits, addressed by record id.
type (
	SetName struct {
		ID    int
		Value string
	}
	SetSubject struct {
		ID    int
		Value string
	}
	SetPublisher struct {
		ID    int
		Value string
	}
	SetPages struct {
		ID    int
		Value int
	}
	SetPrice struct {
		ID    int
		Value float64
	}
	SetDiscount struct {
		ID    int
		Value float64
	}
	SetTax struct {
		ID    int
		Value float64
	}
)

// ApplyAllDiscount sets the discount on every record in the list.
type ApplyAllDiscount struct {
	Value float64
}

// ApplyAllTax sets the tax on every record in the list.
type ApplyAllTax struct {
	Value float64
}

// PublisherDiscount sets the discount on every record whose publisher
// matches exactly.
type PublisherDiscount struct {
	Publisher string
	Value     float64
}

// BulkEdit applies the provided fields to every record whose trimmed,
// case-insensitive bookName is in Names. Nil fields are left alone.
type BulkEdit struct {
	Names    []string
	Price    *float64
	Discount *float64
	Tax      *float64
}

func (SetName) isMutation()           {}
func (SetSubject) isMutation()        {}
func (SetPublisher) isMutation()      {}
func (SetPages) isMutation()          {}
func (SetPrice) isMutation()          {}
func (SetDiscount) isMutation()       {}
func (SetTax) isMutation()            {}
func (ApplyAllDiscount) isMutation()  {}
func (ApplyAllTax) isMutation()       {}
func (PublisherDiscount) isMutation() {}
func (BulkEdit) isMutation()          {}

// Apply runs one mutation against a copy of list and returns the new list
// plus the records that changed, in their post-update state. The input list
// is never modified. Touched records are what callers write through to the
// ledger.
func Apply(list []Book, m Mutation) ([]Book, []Book, error) {
	out := make([]Book, len(list))
	copy(out, list)

	var touched []Book
	touch := func(i int, b Book) {
		out[i] = b
		touched = append(touched, b)
	}

	switch m := m.(type) {
	case SetName:
		for i, b := range out {
			if b.ID == m.ID {
				b.BookName = m.Value
				// Renaming does not reprice.
				touch(i, b)
			}
		}
	case SetSubject:
		for i, b := range out {
			if b.ID == m.ID {
				b.Subject = m.Value
				touch(i, reprice(b))
			}
		}
	case SetPublisher:
		for i, b := range out {
			if b.ID == m.ID {
				b.Publisher = m.Value
				touch(i, reprice(b))
			}
		}
	case SetPages:
		for i, b := range out {
			if b.ID == m.ID {
				b.Pages = m.Value
				touch(i, reprice(b))
			}
		}
	case SetPrice:
		for i, b := range out {
			if b.ID == m.ID {
				b.Price = m.Value
				touch(i, reprice(b))
			}
		}
	case SetDiscount:
		for i, b := range out {
			if b.ID == m.ID {
				b.Discount = m.Value
				touch(i, reprice(b))
			}
		}
	case SetTax:
		for i, b := range out {
			if b.ID == m.ID {
				b.Tax = m.Value
				touch(i, reprice(b))
			}
		}
	case ApplyAllDiscount:
		for i, b := range out {
			b.Discount = m.Value
			touch(i, reprice(b))
		}
	case ApplyAllTax:
		for i, b := range out {
			b.Tax = m.Value
			touch(i, reprice(b))
		}
	case PublisherDiscount:
		if m.Publisher == "" {
			return list, nil, ErrMissingSelection
		}
		for i, b := range out {
			if b.Publisher == m.Publisher {
				b.Discount = m.Value
				touch(i, reprice(b))
			}
		}
		if len(touched) == 0 {
			return list, nil, ErrNoMatchingRecords
		}
	case BulkEdit:
		if len(m.Names) == 0 || (m.Price == nil && m.Discount == nil && m.Tax == nil) {
			return list, nil, ErrMissingSelection
		}
		want := make(map[string]bool, len(m.Names))
		for _, n := range m.Names {
			want[strings.ToLower(strings.TrimSpace(n))] = true
		}
		for i, b := range out {
			if !want[strings.ToLower(strings.TrimSpace(b.BookName))] {
				continue
			}
			if v := m.Price; v != nil && isFinite(*v) {
				b.Price = *v
			}
			if v := m.Discount; v != nil && isFinite(*v) {
				b.Discount = *v
			}
			if v := m.Tax; v != nil && isFinite(*v) {
				b.Tax = *v
			}
			touch(i, reprice(b))
		}
		if len(touched) == 0 {
			return list, nil, ErrNoMatchingRecords
		}
	}

	return out, touched, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
