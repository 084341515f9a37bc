package domain

import "time"

// OrderStatus is the closed set of order states. Status updates are
// validated against membership only, there is no transition graph.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderShipped   OrderStatus = "Shipped"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// Valid reports whether the status is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is an order header. TotalPrice is fixed at creation time as the sum
// of the item subtotals.
type Order struct {
	ID         int64       `gorm:"primaryKey" json:"id,string"`
	BuyerId    int64       `gorm:"index" json:"buyer_id,string"`
	TotalPrice int64       `json:"total_price"`
	Status     OrderStatus `gorm:"size:32" json:"status"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line of an order. PriceAtPurchase is a snapshot of
// the product's unit price at order time and is never recomputed.
type OrderItem struct {
	ID              int64     `gorm:"primaryKey" json:"id,string"`
	OrderId         int64     `gorm:"index" json:"order_id,string"`
	ProductId       int64     `gorm:"index" json:"product_id,string"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase int64     `json:"price_at_purchase"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
