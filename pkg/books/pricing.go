package books

// Final computes the discounted, then taxed price. No rounding and no
// clamping: out-of-range discount/tax values propagate mathematically and
// input sanity is the caller's problem.
func Final(price, discount, tax float64) float64 {
	return price * (1 - discount/100) * (1 + tax/100)
}

// reprice recomputes the derived FinalPrice from the book's current fields.
func reprice(b Book) Book {
	b.FinalPrice = Final(b.Price, b.Discount, b.Tax)
	return b
}
