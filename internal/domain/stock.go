package domain

// StockRecord tracks the on-hand quantity for one product. At most one
// record exists per product; a missing record means no stock movement yet.
type StockRecord struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// CanDecrease reports whether the record holds at least amount units.
func (s StockRecord) CanDecrease(amount int) bool {
	return s.Quantity >= amount
}
