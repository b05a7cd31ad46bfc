package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bazaar/db"
	"bazaar/models"
	"bazaar/mq"
	"bazaar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createOrderInput struct {
	Items           []ItemRequest          `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	OrderStatus     string                 `json:"orderStatus"`
}

// loadCatalog fetches the referenced products keyed by id.
func loadCatalog(ctx context.Context, items []ItemRequest) (map[string]models.Product, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	cursor, err := db.ProductCollection.Find(ctx, bson.M{"productid": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	catalog := make(map[string]models.Product)
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		catalog[product.ProductID] = product
	}
	return catalog, cursor.Err()
}

// POST /api/orders
// Unit prices are re-derived from the live product records at creation
// time; whatever prices the client sends are ignored.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.PaymentMethod == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Payment method is required")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	orderStatus := input.OrderStatus
	if orderStatus == "" {
		orderStatus = models.OrderProcessing
	}
	if !models.ValidOrderStatus(orderStatus) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	catalog, err := loadCatalog(ctx, input.Items)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	items, total, err := PriceItems(catalog, input.Items)
	if err != nil {
		if errors.Is(err, ErrUnknownProduct) || errors.Is(err, ErrBadQuantity) || errors.Is(err, ErrNoItems) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to price order")
		return
	}

	order := models.Order{
		OrderID:         "o" + utils.GenerateID(14),
		UserID:          user.UserID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     orderStatus,
		PaymentMethod:   input.PaymentMethod,
		CreatedAt:       time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating order")
		return
	}

	go mq.Emit("order-created", models.Index{EntityType: "order", EntityId: order.OrderID, Method: "POST", ItemType: "user", ItemId: user.UserID})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GET /api/orders/all  (admin)
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.OrderCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	defer cursor.Close(ctx)

	ordersList := []models.Order{}
	if err := cursor.All(ctx, &ordersList); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ordersList)
}

// GET /api/orders/my-orders
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	defer cursor.Close(ctx)

	ordersList := []models.Order{}
	if err := cursor.All(ctx, &ordersList); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ordersList)
}

// GET /api/orders/order/:orderid
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("orderid")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !CanAccess(user, &order) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

type statusInput struct {
	PaymentStatus string `json:"paymentStatus"`
	OrderStatus   string `json:"orderStatus"`
}

// PATCH /api/orders/order/:orderid/status  (admin)
// Payment and fulfillment lifecycles are independent enumerations; no
// transition ordering is enforced between them.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	var input statusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.PaymentStatus == "" && input.OrderStatus == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order status is required")
		return
	}

	update := bson.M{}
	if input.PaymentStatus != "" {
		if !models.ValidPaymentStatus(input.PaymentStatus) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown payment status")
			return
		}
		update["payment_status"] = input.PaymentStatus
	}
	if input.OrderStatus != "" {
		if !models.ValidOrderStatus(input.OrderStatus) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
			return
		}
		update["order_status"] = input.OrderStatus
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Order
	err := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	go mq.Emit("order-status-changed", models.Index{EntityType: "order", EntityId: orderID, Method: "PATCH"})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/orders/order/:orderid
func DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID := ps.ByName("orderid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !CanAccess(user, &order) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized")
		return
	}

	if _, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderid": orderID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting order")
		return
	}

	go mq.Emit("order-deleted", models.Index{EntityType: "order", EntityId: orderID, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order deleted successfully"})
}
