package models

import "time"

type Subcategory struct {
	SubID       string    `json:"subid" bson:"subid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Category struct {
	CategoryID    string        `json:"categoryid" bson:"categoryid"`
	Name          string        `json:"name" bson:"name"`
	Description   string        `json:"description,omitempty" bson:"description,omitempty"`
	ParentID      string        `json:"parentid,omitempty" bson:"parentid,omitempty"`
	Subcategories []Subcategory `json:"subcategories" bson:"subcategories"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

type ProductImage struct {
	URL       string `json:"url" bson:"url"`
	StorageID string `json:"storage_id" bson:"storage_id"`
}

type Review struct {
	ReviewID  string    `json:"reviewid" bson:"reviewid"`
	UserID    string    `json:"userid" bson:"userid"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Product struct {
	ProductID     string         `json:"productid" bson:"productid"`
	Name          string         `json:"name" bson:"name"`
	Description   string         `json:"description" bson:"description"`
	Price         float64        `json:"price" bson:"price"`
	Stock         int            `json:"stock" bson:"stock"`
	CategoryID    string         `json:"categoryid" bson:"categoryid"`
	SubcategoryID string         `json:"subcategoryid,omitempty" bson:"subcategoryid,omitempty"`
	Images        []ProductImage `json:"images" bson:"images"`
	// Rating is derived: the mean of all embedded review ratings, 0 when none.
	Rating    float64   `json:"rating" bson:"rating"`
	Reviews   []Review  `json:"reviews" bson:"reviews"`
	CreatedBy string    `json:"createdby" bson:"createdby"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
