package orders

import (
	"errors"
	"fmt"

	"bazaar/models"
)

var (
	ErrNoItems        = errors.New("order must contain at least one item")
	ErrUnknownProduct = errors.New("unknown product")
	ErrBadQuantity    = errors.New("quantity must be at least 1")
)

// ItemRequest is an order line as the caller sends it: a product
// reference and a quantity. Prices are never taken from the client.
type ItemRequest struct {
	ProductID string `json:"productid"`
	Quantity  int    `json:"quantity"`
}

// PriceItems builds the priced line-item snapshot for an order from the
// authoritative product records. The returned prices are point-in-time
// copies; they are never recomputed after the order exists.
func PriceItems(catalog map[string]models.Product, items []ItemRequest) ([]models.OrderItem, float64, error) {
	if len(items) == 0 {
		return nil, 0, ErrNoItems
	}

	priced := make([]models.OrderItem, 0, len(items))
	total := 0.0
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: product %s", ErrBadQuantity, item.ProductID)
		}
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownProduct, item.ProductID)
		}
		priced = append(priced, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	return priced, total, nil
}

// CanAccess is the order visibility rule: the owning buyer or an admin.
func CanAccess(user *models.User, order *models.Order) bool {
	return user.IsAdmin() || order.UserID == user.UserID
}
