package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"digishop/db"
	"digishop/models"
	"digishop/mq"
	"digishop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUnknownTransition = errors.New("unknown order transition")

func isAdmin(ctx context.Context, userID string) bool {
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return false
	}
	return user.IsAdmin()
}

// POST /api/orders
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		OrderItems      []models.OrderItem     `json:"orderItems"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.OrderItems) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No order items")
		return
	}
	if input.PaymentMethod == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Payment method is required")
		return
	}
	for _, item := range input.OrderItems {
		if item.Quantity <= 0 || item.Price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid order item")
			return
		}
	}

	// Totals are recomputed server-side; client-sent figures are ignored.
	totals := ComputeTotals(input.OrderItems)

	order := models.Order{
		OrderID:         utils.GenerateID("o", 12),
		UserID:          userID,
		OrderItems:      input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		TaxPrice:        totals.TaxPrice,
		ShippingPrice:   totals.ShippingPrice,
		TotalPrice:      totals.TotalPrice,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	m := models.Index{EntityType: "order", EntityId: order.OrderID, Method: "POST"}
	go mq.Emit(ctx, "order-created", m)

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GET /api/order/:id
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(), bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GET /api/orders/myorders
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var myOrders []models.Order
	if err := cursor.All(ctx, &myOrders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if myOrders == nil {
		myOrders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, myOrders)
}

// GET /api/orders (admin)
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized as an admin")
		return
	}

	cursor, err := db.OrderCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var all []models.Order
	if err := cursor.All(ctx, &all); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if all == nil {
		all = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, all)
}

// PUT /api/order/:id/pay
func PayOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("id")

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := CanTransition(order, TransitionPay); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	var receipt models.PaymentResult
	if order.PaymentMethod == OfflinePaymentMethod {
		receipt = SyntheticReceipt(now.Format(time.RFC3339))
	} else {
		var input struct {
			ID         string `json:"id"`
			Status     string `json:"status"`
			UpdateTime string `json:"update_time"`
			Payer      struct {
				EmailAddress string `json:"email_address"`
			} `json:"payer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid payment result")
			return
		}
		receipt = models.PaymentResult{
			ID:           input.ID,
			Status:       input.Status,
			UpdateTime:   input.UpdateTime,
			EmailAddress: input.Payer.EmailAddress,
		}
	}

	updated, err := applyTransition(ctx, orderID, bson.M{
		"is_paid":        true,
		"paid_at":        now,
		"payment_result": receipt,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	m := models.Index{EntityType: "order", EntityId: orderID, Method: "PUT", ItemType: "pay"}
	go mq.Emit(ctx, "order-paid", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// PUT /api/order/:id/deliver (admin)
func DeliverOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized as an admin")
		return
	}

	orderID := ps.ByName("id")

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := CanTransition(order, TransitionDeliver); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := applyTransition(ctx, orderID, bson.M{
		"is_delivered": true,
		"delivered_at": time.Now(),
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	m := models.Index{EntityType: "order", EntityId: orderID, Method: "PUT", ItemType: "deliver"}
	go mq.Emit(ctx, "order-delivered", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// PUT /api/orders/:id/cancel
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if utils.GetUserIDFromRequest(r) == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID := ps.ByName("id")

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := CanTransition(order, TransitionCancel); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := applyTransition(ctx, orderID, bson.M{
		"is_cancelled": true,
		"cancelled_at": time.Now(),
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	m := models.Index{EntityType: "order", EntityId: orderID, Method: "PUT", ItemType: "cancel"}
	go mq.Emit(ctx, "order-cancelled", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// applyTransition stamps the given status fields and returns the
// updated document.
func applyTransition(ctx context.Context, orderID string, set bson.M) (models.Order, error) {
	set["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	return updated, err
}
