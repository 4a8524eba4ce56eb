package billing

// ItemInput is one billable line as entered: a positive whole quantity and a
// positive unit rate. Validation happens upstream; these functions are pure.
type ItemInput struct {
	Quantity int
	Rate     float64
}

// Totals are the derived monetary fields of an invoice.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeItemAmount returns the rounded extension of a single line
// (quantity x rate). Exposed standalone so a line can be recalculated on its
// own as it is edited.
func ComputeItemAmount(quantity int, rate float64) float64 {
	return Round2(float64(quantity) * rate)
}

// ComputeTotals derives subtotal, tax and total from the given lines.
// The subtotal is the sum of per-line rounded amounts, not of raw products:
// each line displays its own rounded amount, and summing anything else would
// let the document disagree with its lines.
func ComputeTotals(items []ItemInput, taxRate float64) Totals {
	amounts := make([]float64, 0, len(items))
	for _, it := range items {
		amounts = append(amounts, ComputeItemAmount(it.Quantity, it.Rate))
	}
	return TotalsFromAmounts(amounts, taxRate)
}

// TotalsFromAmounts derives totals from already-rounded line amounts. Used
// when the lines themselves are unchanged: the stored amounts are the
// authoritative values, so the subtotal must come from them, not from a
// fresh quantity x rate pass.
func TotalsFromAmounts(amounts []float64, taxRate float64) Totals {
	var subtotal float64
	for _, a := range amounts {
		subtotal += a
	}
	subtotal = Round2(subtotal)
	taxAmount := Round2(subtotal * taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     Round2(subtotal + taxAmount),
	}
}
