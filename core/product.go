package core

import "github.com/shopspring/decimal"

// Product is the catalog resource guarded by the authorization layer
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}
