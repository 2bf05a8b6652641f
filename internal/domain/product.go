// Package domain holds the catalog entities and the rules that apply to them.
package domain

import "strings"

// Product is a catalog entry. ID is assigned by the store on first save and never changes afterwards.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Amount      int64
}

// ProductPatch carries a partial update. A nil field means "not supplied".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Amount      *int64
}

// ApplyUpdate merges patch into p field by field.
// Strings are taken only when non-blank, numbers only when strictly positive;
// everything else leaves the current value in place. ID is never touched.
func (p *Product) ApplyUpdate(patch ProductPatch) {
	if patch.Name != nil && !isBlank(*patch.Name) {
		p.Name = *patch.Name
	}
	if patch.Description != nil && !isBlank(*patch.Description) {
		p.Description = *patch.Description
	}
	if patch.Price != nil && *patch.Price > 0 {
		p.Price = *patch.Price
	}
	if patch.Amount != nil && *patch.Amount > 0 {
		p.Amount = *patch.Amount
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
