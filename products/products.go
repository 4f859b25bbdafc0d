package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"time"

	"digishop/db"
	"digishop/models"
	"digishop/mq"
	"digishop/rdx"
	"digishop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pageSize = 10

const topProductsCacheKey = "products:top"

// invalidateTopProducts drops the cached top listing after any catalog
// write, so ratings and new products show up without waiting out the TTL.
func invalidateTopProducts() {
	if err := rdx.RdxDel(topProductsCacheKey); err != nil {
		log.Printf("Failed to invalidate top products cache: %v", err)
	}
}

func isAdmin(ctx context.Context, userID string) bool {
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return false
	}
	return user.IsAdmin()
}

// GET /api/products?keyword=&pageNumber=
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page := utils.ParsePageNumber(r)

	filter := bson.M{}
	if keyword := r.URL.Query().Get("keyword"); keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	}

	count, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count products")
		return
	}

	opts := options.Find().
		SetSkip(int64(pageSize * (page - 1))).
		SetLimit(pageSize)

	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var productList []models.Product
	if err := cursor.All(ctx, &productList); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	if productList == nil {
		productList = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, models.ProductPage{
		Products: productList,
		Page:     page,
		Pages:    utils.ComputePages(count, pageSize),
	})
}

// GET /api/products/top
func GetTopProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(topProductsCacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(3)

	cursor, err := db.ProductCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch top products")
		return
	}
	defer cursor.Close(ctx)

	var top []models.Product
	if err := cursor.All(ctx, &top); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if top == nil {
		top = []models.Product{}
	}

	if data, err := json.Marshal(top); err == nil {
		if err := rdx.SetWithExpiry(topProductsCacheKey, string(data), time.Minute); err != nil {
			log.Printf("Failed to cache top products: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, top)
}

// GET /api/products/:id
// The :id slot also carries the reserved word "top" (httprouter keeps
// one wildcard per segment).
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "top" {
		GetTopProducts(w, r, ps)
		return
	}

	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// POST /api/products (admin)
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if !isAdmin(ctx, userID) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized, admin privileges required")
		return
	}

	var input struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Image        string  `json:"image"`
		Brand        string  `json:"brand"`
		Category     string  `json:"category"`
		CountInStock *int    `json:"countInStock"`
		Description  string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Price <= 0 || input.Image == "" || input.Brand == "" ||
		input.Category == "" || input.CountInStock == nil || input.Description == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if *input.CountInStock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock must be a non-negative integer")
		return
	}

	product := models.Product{
		ProductID:    utils.GenerateID("p", 12),
		UserID:       userID,
		Name:         input.Name,
		Price:        input.Price,
		Image:        input.Image,
		Brand:        input.Brand,
		Category:     input.Category,
		CountInStock: *input.CountInStock,
		Description:  input.Description,
		Reviews:      []models.Review{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to insert product")
		return
	}

	invalidateTopProducts()

	m := models.Index{EntityType: "product", EntityId: product.ProductID, Method: "POST"}
	go mq.Emit(ctx, "product-created", m)

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// PUT /api/products/:id (admin)
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized, admin privileges required")
		return
	}

	var input struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Image        string  `json:"image"`
		Brand        string  `json:"brand"`
		Category     string  `json:"category"`
		CountInStock *int    `json:"countInStock"`
		Description  string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	productID := ps.ByName("id")

	// Empty fields retain stored values; stock may legitimately drop to 0.
	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Price > 0 {
		set["price"] = input.Price
	}
	if input.Image != "" {
		set["image"] = input.Image
	}
	if input.Brand != "" {
		set["brand"] = input.Brand
	}
	if input.Category != "" {
		set["category"] = input.Category
	}
	if input.CountInStock != nil {
		set["count_in_stock"] = *input.CountInStock
	}
	if input.Description != "" {
		set["description"] = input.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	invalidateTopProducts()

	m := models.Index{EntityType: "product", EntityId: productID, Method: "PUT"}
	go mq.Emit(ctx, "product-updated", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/products/:id (admin)
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized, admin privileges required")
		return
	}

	productID := ps.ByName("id")

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	invalidateTopProducts()

	m := models.Index{EntityType: "product", EntityId: productID, Method: "DELETE"}
	go mq.Emit(ctx, "product-deleted", m)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product removed successfully"})
}
