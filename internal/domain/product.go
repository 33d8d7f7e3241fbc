package domain

type Product struct {
	ID          int64
	Name        string
	Description string
	Barcode     string
	Price       float64
	SupplierID  int64
}
