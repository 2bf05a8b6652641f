package db

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Amount      int64
}
