package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment stage of a customer order
type OrderStatus string

const (
	OrderPreparing        OrderStatus = "Preparing"
	OrderShipped          OrderStatus = "Shipped"
	OrderDeliveredPending OrderStatus = "Delivered Pending"
	OrderDelivered        OrderStatus = "Delivered"
	OrderCancelled        OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPreparing, OrderShipped, OrderDeliveredPending, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a single line of an order
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Payment describes how an order was paid
type Payment struct {
	Method    string `bson:"method" json:"method"` // "card", "cod", "gcash"
	Status    string `bson:"status" json:"status"`
	Reference string `bson:"reference,omitempty" json:"reference,omitempty"`
}

// Order represents a customer's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrderCode       string             `bson:"order_code" json:"order_code"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Payment         Payment            `bson:"payment" json:"payment"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	ShippingFee     float64            `bson:"shipping_fee" json:"shipping_fee"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	AssignedAlready bool               `bson:"assigned_already" json:"assigned_already"`
	ProofOfDelivery string             `bson:"proof_of_delivery,omitempty" json:"proof_of_delivery,omitempty"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}

// OrderItemView is an order line joined with its product. Product is nil when
// the product no longer exists.
type OrderItemView struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Product   *Product           `json:"product"`
	Quantity  int                `json:"quantity"`
	Price     float64            `json:"price"`
}

// OrderView is an order with product details for list rendering
type OrderView struct {
	Order
	Items []OrderItemView `json:"items"`
}

// NewOrderView joins order lines with the given products by id
func NewOrderView(order Order, products []Product) OrderView {
	byID := make(map[primitive.ObjectID]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID: item.ProductID,
			Product:   byID[item.ProductID],
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderView{Order: order, Items: items}
}
