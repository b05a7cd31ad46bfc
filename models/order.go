package models

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderItem snapshots a priced line at order-creation time. Price is the
// unit price of the product when the order was placed and is never
// recomputed from the live product.
type OrderItem struct {
	ProductID string  `json:"productid" bson:"productid"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

type ShippingAddress struct {
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type Order struct {
	OrderID         string          `json:"orderid" bson:"orderid"`
	UserID          string          `json:"userid" bson:"userid"`
	Items           []OrderItem     `json:"items" bson:"items"`
	TotalAmount     float64         `json:"total_amount" bson:"total_amount"`
	ShippingAddress ShippingAddress `json:"shipping_address" bson:"shipping_address"`
	PaymentStatus   string          `json:"payment_status" bson:"payment_status"`
	OrderStatus     string          `json:"order_status" bson:"order_status"`
	PaymentMethod   string          `json:"payment_method" bson:"payment_method"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}
