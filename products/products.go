package products

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"bazaar/assets"
	"bazaar/db"
	"bazaar/models"
	"bazaar/mq"
	"bazaar/rdx"
	"bazaar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxImagesPerProduct = 5

const productCacheTTL = 10 * time.Minute

func productCacheKey(productID string) string {
	return "product:" + productID
}

// invalidateProductCache drops the cached detail document after any
// write that changes the product, its images, or its reviews.
func invalidateProductCache(productID string) {
	if err := rdx.RdxDel(productCacheKey(productID)); err != nil {
		log.Printf("products: drop cached %s: %v", productID, err)
	}
}

// Store is the asset host product images are uploaded to; wired in main.
var Store assets.Uploader

func SetUploader(up assets.Uploader) {
	Store = up
}

// GET /api/products
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := BuildListFilter(r.URL.Query())
	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := BuildListOptions(r.URL.Query().Get("sort"), skip, limit)

	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	defer cursor.Close(ctx)

	prods := []models.Product{}
	if err := cursor.All(ctx, &prods); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	pages := (total + limit - 1) / limit
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": prods,
		"total":    total,
		"pages":    pages,
	})
}

// GET /api/products/:productid
// Detail reads go through a short-lived cache; writes invalidate it.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	if cached, err := rdx.RdxGet(productCacheKey(productID)); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if data, err := json.Marshal(product); err == nil {
		if err := rdx.SetWithExpiry(productCacheKey(productID), string(data), productCacheTTL); err != nil {
			log.Printf("products: cache %s: %v", productID, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// categoryExists is the referential check run before any product write.
func categoryExists(ctx context.Context, categoryID string) (bool, error) {
	err := db.CategoryCollection.FindOne(ctx, bson.M{"categoryid": categoryID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// collectImageFiles validates and opens the uploaded image parts.
// Callers must close the returned files.
func collectImageFiles(w http.ResponseWriter, r *http.Request) ([]assets.NamedFile, []multipart.File, bool) {
	if r.MultipartForm == nil {
		return nil, nil, true
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		return nil, nil, true
	}
	if len(headers) > maxImagesPerProduct {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("At most %d images allowed", maxImagesPerProduct))
		return nil, nil, false
	}

	var named []assets.NamedFile
	var open []multipart.File
	for _, header := range headers {
		if !utils.ValidateImageFileType(w, header) {
			for _, f := range open {
				f.Close()
			}
			return nil, nil, false
		}
		file, err := header.Open()
		if err != nil {
			for _, f := range open {
				f.Close()
			}
			utils.RespondWithError(w, http.StatusBadRequest, "Error reading image file")
			return nil, nil, false
		}
		open = append(open, file)
		named = append(named, assets.NamedFile{Reader: file, Name: header.Filename})
	}
	return named, open, true
}

func toProductImages(uploaded []assets.UploadedAsset) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(uploaded))
	for _, asset := range uploaded {
		images = append(images, models.ProductImage{URL: asset.URL, StorageID: asset.StorageID})
	}
	return images
}

func storageIDs(images []models.ProductImage) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.StorageID)
	}
	return ids
}

// POST /api/products  (admin, multipart)
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form: "+err.Error())
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	priceStr := r.FormValue("price")
	stockStr := r.FormValue("stock")
	categoryID := r.FormValue("category")
	subcategoryID := r.FormValue("subcategory")

	var errs []string
	if name == "" {
		errs = append(errs, "Name is required")
	}
	if description == "" {
		errs = append(errs, "Description is required")
	}
	if priceStr == "" {
		errs = append(errs, "Price is required")
	}
	if categoryID == "" {
		errs = append(errs, "Category is required")
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if priceStr != "" && (err != nil || price < 0) {
		errs = append(errs, "Invalid price format")
	}
	stock := 0
	if stockStr != "" {
		stock, err = strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			errs = append(errs, "Invalid stock format")
		}
	}

	if len(errs) > 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ok, err := categoryExists(ctx, categoryID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check category")
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	files, open, ok := collectImageFiles(w, r)
	if !ok {
		return
	}
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()

	var images []models.ProductImage
	if len(files) > 0 {
		uploaded, err := assets.UploadAll(ctx, Store, files)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to upload images")
			return
		}
		images = toProductImages(uploaded)
	}

	now := time.Now()
	product := models.Product{
		ProductID:     "p" + utils.GenerateID(14),
		Name:          name,
		Description:   description,
		Price:         price,
		Stock:         stock,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Images:        images,
		Rating:        0,
		Reviews:       []models.Review{},
		CreatedBy:     user.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		// roll the stored assets back so nothing leaks on the host
		assets.DeleteAll(context.Background(), Store, storageIDs(images))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	go mq.Emit("product-created", models.Index{EntityType: "product", EntityId: product.ProductID, Method: "POST", ItemType: "category", ItemId: categoryID})

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// PUT /api/products/:productid  (admin, multipart)
// Absent fields keep their current values; new images replace the old
// set entirely.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	update := bson.M{"updated_at": time.Now()}

	if name := r.FormValue("name"); name != "" {
		update["name"] = name
	}
	if description := r.FormValue("description"); description != "" {
		update["description"] = description
	}
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid price format")
			return
		}
		update["price"] = price
	}
	if stockStr := r.FormValue("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid stock format")
			return
		}
		update["stock"] = stock
	}
	if categoryID := r.FormValue("category"); categoryID != "" {
		ok, err := categoryExists(ctx, categoryID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check category")
			return
		}
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		update["categoryid"] = categoryID
	}
	if subcategoryID := r.FormValue("subcategory"); subcategoryID != "" {
		update["subcategoryid"] = subcategoryID
	}

	files, open, ok := collectImageFiles(w, r)
	if !ok {
		return
	}
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()

	if len(files) > 0 {
		// drop the previous set from the asset host first
		assets.DeleteAll(ctx, Store, storageIDs(product.Images))

		uploaded, err := assets.UploadAll(ctx, Store, files)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to upload images")
			return
		}
		update["images"] = toProductImages(uploaded)
	}

	_, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": update},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	invalidateProductCache(productID)

	var updated models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load updated product")
		return
	}

	go mq.Emit("product-edited", models.Index{EntityType: "product", EntityId: productID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/products/:productid  (admin)
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	assets.DeleteAll(ctx, Store, storageIDs(product.Images))

	if _, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": productID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	invalidateProductCache(productID)

	go mq.Emit("product-deleted", models.Index{EntityType: "product", EntityId: productID, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted successfully"})
}
