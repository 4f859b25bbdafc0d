package models

import "time"

type OrderItem struct {
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Image     string  `json:"image" bson:"image"`
	Price     float64 `json:"price" bson:"price"`
	ProductID string  `json:"productid" bson:"productid"`
}

type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// PaymentResult holds the gateway receipt; synthesized for offline methods.
type PaymentResult struct {
	ID           string `json:"id" bson:"id"`
	Status       string `json:"status" bson:"status"`
	UpdateTime   string `json:"update_time" bson:"update_time"`
	EmailAddress string `json:"email_address" bson:"email_address"`
}

type Order struct {
	OrderID         string          `json:"orderid" bson:"orderid"`
	UserID          string          `json:"userid" bson:"userid"`
	OrderItems      []OrderItem     `json:"orderItems" bson:"order_items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" bson:"payment_method"`
	PaymentResult   PaymentResult   `json:"paymentResult,omitempty" bson:"payment_result,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice" bson:"items_price"`
	TaxPrice        float64         `json:"taxPrice" bson:"tax_price"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shipping_price"`
	TotalPrice      float64         `json:"totalPrice" bson:"total_price"`
	IsPaid          bool            `json:"isPaid" bson:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	IsDelivered     bool            `json:"isDelivered" bson:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`
	IsCancelled     bool            `json:"isCancelled" bson:"is_cancelled"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" bson:"updated_at"`
}
