package model

import (
	"time"
)

// Product categories and availability statuses accepted by the catalog.
const (
	CategoryMakanan = "makanan"
	CategoryMinuman = "minuman"

	StatusTersedia = "tersedia"
	StatusHabis    = "habis"
)

// Categories lists the valid product categories.
var Categories = []string{CategoryMakanan, CategoryMinuman}

// Statuses lists the valid availability statuses.
var Statuses = []string{StatusTersedia, StatusHabis}

// ValidCategory reports whether c is an accepted product category.
func ValidCategory(c string) bool {
	return c == CategoryMakanan || c == CategoryMinuman
}

// ValidStatus reports whether s is an accepted availability status.
func ValidStatus(s string) bool {
	return s == StatusTersedia || s == StatusHabis
}

// Product represents a sellable item belonging to exactly one merchant
type Product struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	MerchantID  uint    `json:"merchant_id" gorm:"index;not null"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text"`
	Category    string  `json:"category" gorm:"type:varchar(20);not null"`
	Price       int64   `json:"price" gorm:"not null"`
	Rating      float64 `json:"rating"`
	Status      string  `json:"status" gorm:"type:varchar(20);not null"`
	Photo       string  `json:"photo" gorm:"type:varchar(255)"`

	// CommentsCount is computed per query on list; it is not a column.
	CommentsCount int64 `json:"comments_count" gorm:"->;-:migration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Comments        []Comment        `json:"comments,omitempty" gorm:"foreignKey:ProductID"`
	Favorites       []Favorite       `json:"favorites,omitempty" gorm:"foreignKey:ProductID"`
	PromotionPhotos []PromotionPhoto `json:"promotion_photos,omitempty" gorm:"foreignKey:ProductID"`
}

// Comment is a customer review attached to a product
type Comment struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	ProductID    uint      `json:"product_id" gorm:"index;not null"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255)"`
	Body         string    `json:"body" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Favorite marks a product as favorited by a customer
type Favorite struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	CustomerID uint      `json:"customer_id" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// PromotionPhoto links an uploaded promotion image to its product
type PromotionPhoto struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Path      string    `json:"path" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
}
