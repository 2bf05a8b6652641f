// Package events contains the product change events published by the catalog.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
)

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  int64            `json:"product_id"`
	Name       string           `json:"name,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (e ProductEvent) Subject() string {
	switch e.Type {
	case ProductCreated:
		return messaging.ProductCreatedSubject
	case ProductUpdated:
		return messaging.ProductUpdatedSubject
	default:
		return messaging.ProductDeletedSubject
	}
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
