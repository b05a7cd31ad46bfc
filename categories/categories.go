package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bazaar/db"
	"bazaar/models"
	"bazaar/mq"
	"bazaar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/categories
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.CategoryCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// GET /api/categories/:categoryid
func GetCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var category models.Category
	err := db.CategoryCollection.FindOne(ctx, bson.M{"categoryid": ps.ByName("categoryid")}).Decode(&category)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, category)
}

type categoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentid"`
}

func (in *categoryInput) validate() string {
	if in.Name == "" {
		return "Name is required"
	}
	return ""
}

// parentExists verifies the referenced parent category resolves before
// any write happens.
func parentExists(ctx context.Context, parentID string) (bool, error) {
	if parentID == "" {
		return true, nil
	}
	err := db.CategoryCollection.FindOne(ctx, bson.M{"categoryid": parentID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// POST /api/categories  (admin)
func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := parentExists(ctx, input.ParentID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check parent category")
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid parent category ID")
		return
	}

	category := models.Category{
		CategoryID:    "c" + utils.GenerateID(10),
		Name:          input.Name,
		Description:   input.Description,
		ParentID:      input.ParentID,
		Subcategories: []models.Subcategory{},
		CreatedAt:     time.Now(),
	}

	if _, err := db.CategoryCollection.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Category name already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	go mq.Emit("category-created", models.Index{EntityType: "category", EntityId: category.CategoryID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// PUT /api/categories/:categoryid  (admin)
func EditCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	categoryID := ps.ByName("categoryid")

	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := parentExists(ctx, input.ParentID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check parent category")
		return
	}
	if !ok || input.ParentID == categoryID {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid parent category ID")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        input.Name,
		"description": input.Description,
		"parentid":    input.ParentID,
	}}

	var updated models.Category
	err = db.CategoryCollection.FindOneAndUpdate(ctx,
		bson.M{"categoryid": categoryID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Category name already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	go mq.Emit("category-edited", models.Index{EntityType: "category", EntityId: categoryID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/categories/:categoryid  (admin)
// Children referencing the deleted category keep existing; only their
// parent reference is cleared.
func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	categoryID := ps.ByName("categoryid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.CategoryCollection.DeleteOne(ctx, bson.M{"categoryid": categoryID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	_, err = db.CategoryCollection.UpdateMany(ctx,
		bson.M{"parentid": categoryID},
		ClearParentUpdate(),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detach child categories")
		return
	}

	go mq.Emit("category-deleted", models.Index{EntityType: "category", EntityId: categoryID, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Category deleted successfully"})
}

// ClearParentUpdate is the cascade applied to children of a deleted
// category.
func ClearParentUpdate() bson.M {
	return bson.M{"$unset": bson.M{"parentid": ""}}
}

type subcategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/categories/:categoryid/subcategories  (admin)
func AddSubcategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	categoryID := ps.ByName("categoryid")

	var input subcategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	sub := models.Subcategory{
		SubID:       "s" + utils.GenerateID(10),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Category
	err := db.CategoryCollection.FindOneAndUpdate(ctx,
		bson.M{"categoryid": categoryID},
		bson.M{"$push": bson.M{"subcategories": sub}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add subcategory")
		return
	}

	go mq.Emit("subcategory-added", models.Index{EntityType: "subcategory", EntityId: sub.SubID, Method: "POST", ItemType: "category", ItemId: categoryID})

	utils.RespondWithJSON(w, http.StatusCreated, updated)
}
