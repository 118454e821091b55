package books

import "sort"

// Totals are the summed final prices of both working lists.
type Totals struct {
	TextbookTotal float64
	NotebookTotal float64
	GrandTotal    float64
}

// ComputeTotals sums FinalPrice per list. Derived view, recompute on every
// change; never cache it.
func ComputeTotals(textbooks, notebooks []Book) Totals {
	t := Totals{}
	for _, b := range textbooks {
		t.TextbookTotal += b.FinalPrice
	}
	for _, b := range notebooks {
		t.NotebookTotal += b.FinalPrice
	}
	t.GrandTotal = t.TextbookTotal + t.NotebookTotal
	return t
}

// Summary holds per-list statistics.
type Summary struct {
	Count       int
	TotalValue  float64
	AvgDiscount float64
	AvgTax      float64
}

// Summarize computes count, total value and mean discount/tax for a list.
// Averages are zero for an empty list.
func Summarize(list []Book) Summary {
	s := Summary{Count: len(list)}
	if s.Count == 0 {
		return s
	}
	for _, b := range list {
		s.TotalValue += b.FinalPrice
		s.AvgDiscount += b.Discount
		s.AvgTax += b.Tax
	}
	s.AvgDiscount /= float64(s.Count)
	s.AvgTax /= float64(s.Count)
	return s
}

// GroupTotal is one group's summed final price.
type GroupTotal struct {
	Key   string
	Total float64
}

// GroupSum groups records by an arbitrary derived key and sums FinalPrice
// per group. Results come back sorted by key.
func GroupSum(list []Book, key func(Book) string) []GroupTotal {
	sums := make(map[string]float64)
	for _, b := range list {
		sums[key(b)] += b.FinalPrice
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
