package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/Zuis050623/jajan-utm/internal/middleware"
	"github.com/Zuis050623/jajan-utm/internal/model"
	"github.com/Zuis050623/jajan-utm/pkg/database"
	"github.com/Zuis050623/jajan-utm/pkg/logger"
	"github.com/Zuis050623/jajan-utm/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// productsPerPage is the catalog page size.
const productsPerPage = 10

// commentsCountSelect annotates each product row with the number of comments
// attached to it.
const commentsCountSelect = "products.*, (SELECT COUNT(*) FROM comments WHERE comments.product_id = products.id) AS comments_count"

// ProductHandler serves the merchant product catalog endpoints.
type ProductHandler struct {
	photos *storage.DiskStore
}

// NewProductHandler creates a product handler backed by the given photo store.
func NewProductHandler(photos *storage.DiskStore) *ProductHandler {
	return &ProductHandler{photos: photos}
}

// List handles retrieving the authenticated merchant's products with optional
// name search and pagination.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	merchant := middleware.MerchantFromContext(c)
	if merchant == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := c.QueryParam("search")

	db := database.GetDB()

	filtered := db.Model(&model.Product{}).Where("merchant_id = ?", merchant.MerchantID)
	if search != "" {
		filtered = filtered.Where("name LIKE ?", "%"+search+"%")
	}

	var filteredTotal int64
	if result := filtered.Count(&filteredTotal); result.Error != nil {
		log.Error("Failed to count products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	query := db.Model(&model.Product{}).
		Select(commentsCountSelect).
		Where("merchant_id = ?", merchant.MerchantID)
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var products []model.Product
	result := query.Order("id").
		Limit(productsPerPage).
		Offset((page - 1) * productsPerPage).
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products",
			zap.Uint("merchant_id", merchant.MerchantID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	// Unfiltered total for the merchant, regardless of the search term.
	var totalProducts int64
	if result := db.Model(&model.Product{}).Where("merchant_id = ?", merchant.MerchantID).Count(&totalProducts); result.Error != nil {
		log.Error("Failed to count merchant products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}

	totalPages := int(filteredTotal) / productsPerPage
	if int(filteredTotal)%productsPerPage != 0 {
		totalPages++
	}

	log.Info("Products listed",
		zap.Uint("merchant_id", merchant.MerchantID),
		zap.String("search", search),
		zap.Int("page", page),
		zap.Int("count", len(products)))

	return c.JSON(http.StatusOK, echo.Map{
		"products":       products,
		"total_products": totalProducts,
		"page":           page,
		"per_page":       productsPerPage,
		"total":          filteredTotal,
		"total_pages":    totalPages,
	})
}

// New returns the context needed to render an empty product creation form:
// the accepted enum values and upload constraints. No side effects.
func (h *ProductHandler) New(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"categories": model.Categories,
		"statuses":   model.Statuses,
	})
}

// Store handles creating a new product from a multipart form.
func (h *ProductHandler) Store(c echo.Context) error {
	log := logger.FromEcho(c)
	merchant := middleware.MerchantFromContext(c)
	if merchant == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	fieldErrors := map[string]string{}

	name := c.FormValue("name")
	if name == "" {
		fieldErrors["name"] = "Nama produk wajib diisi."
	} else if utf8.RuneCountInString(name) > 255 {
		fieldErrors["name"] = "Nama produk maksimal 255 karakter."
	}

	description := c.FormValue("description")

	category := c.FormValue("category")
	if !model.ValidCategory(category) {
		fieldErrors["category"] = "Kategori harus makanan atau minuman."
	}

	var price int64
	if raw := c.FormValue("price"); raw == "" {
		fieldErrors["price"] = "Harga wajib diisi."
	} else if v, err := strconv.ParseInt(raw, 10, 64); err != nil {
		fieldErrors["price"] = "Harga harus berupa bilangan bulat."
	} else {
		price = v
	}

	var rating float64
	if raw := c.FormValue("rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			fieldErrors["rating"] = "Rating harus antara 0 sampai 5."
		} else {
			rating = v
		}
	}

	status := c.FormValue("status")
	if !model.ValidStatus(status) {
		fieldErrors["status"] = "Status harus tersedia atau habis."
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil
	}
	if photo != nil {
		if err := h.photos.CheckPhoto(photo); err != nil {
			fieldErrors["photo"] = photoErrorMessage(err)
		}
	}

	if len(fieldErrors) > 0 {
		log.Warn("Product creation rejected", zap.Any("errors", fieldErrors))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "Data tidak valid.",
			"errors":  fieldErrors,
		})
	}

	product := model.Product{
		MerchantID:  merchant.MerchantID,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Rating:      rating,
		Status:      status,
	}

	if photo != nil {
		path, err := h.photos.Store(storage.ProductPhotoBucket, photo)
		if err != nil {
			log.Error("Failed to store product photo", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store photo"})
		}
		product.Photo = path
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.Uint("merchant_id", merchant.MerchantID),
			zap.String("name", product.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("merchant_id", merchant.MerchantID),
		zap.String("name", product.Name))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Produk berhasil ditambahkan.",
		"product": product,
	})
}

// Edit handles loading a product for editing. Products owned by another
// merchant yield an authorization outcome, not an error.
func (h *ProductHandler) Edit(c echo.Context) error {
	log := logger.FromEcho(c)
	merchant := middleware.MerchantFromContext(c)
	if merchant == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	product, errResp := h.loadOwnedProduct(c, merchant.MerchantID)
	if errResp != nil {
		return errResp(c)
	}

	log.Info("Product loaded for editing",
		zap.Uint("product_id", product.ID),
		zap.Uint("merchant_id", merchant.MerchantID))

	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// Update handles updating an existing product from a multipart form. The
// rules here are stricter than Store: description and rating are required and
// price accepts any numeric value, matching the original catalog behavior.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	merchant := middleware.MerchantFromContext(c)
	if merchant == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	product, errResp := h.loadOwnedProduct(c, merchant.MerchantID)
	if errResp != nil {
		return errResp(c)
	}

	fieldErrors := map[string]string{}

	name := c.FormValue("name")
	if name == "" {
		fieldErrors["name"] = "Nama produk wajib diisi."
	} else if utf8.RuneCountInString(name) > 255 {
		fieldErrors["name"] = "Nama produk maksimal 255 karakter."
	}

	description := c.FormValue("description")
	if description == "" {
		fieldErrors["description"] = "Deskripsi wajib diisi."
	}

	category := c.FormValue("category")
	if !model.ValidCategory(category) {
		fieldErrors["category"] = "Kategori harus makanan atau minuman."
	}

	var price float64
	if raw := c.FormValue("price"); raw == "" {
		fieldErrors["price"] = "Harga wajib diisi."
	} else if v, err := strconv.ParseFloat(raw, 64); err != nil {
		fieldErrors["price"] = "Harga harus berupa angka."
	} else {
		price = v
	}

	var rating float64
	if raw := c.FormValue("rating"); raw == "" {
		fieldErrors["rating"] = "Rating wajib diisi."
	} else if v, err := strconv.ParseFloat(raw, 64); err != nil || v < 0 || v > 5 {
		fieldErrors["rating"] = "Rating harus antara 0 sampai 5."
	} else {
		rating = v
	}

	status := c.FormValue("status")
	if !model.ValidStatus(status) {
		fieldErrors["status"] = "Status harus tersedia atau habis."
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil
	}
	if photo != nil {
		if err := h.photos.CheckPhoto(photo); err != nil {
			fieldErrors["photo"] = photoErrorMessage(err)
		}
	}

	var promotionPhotos []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for i, fh := range form.File["promotion_photos"] {
			if err := h.photos.CheckPhoto(fh); err != nil {
				fieldErrors[fmt.Sprintf("promotion_photos.%d", i)] = photoErrorMessage(err)
				continue
			}
			promotionPhotos = append(promotionPhotos, fh)
		}
	}

	if len(fieldErrors) > 0 {
		log.Warn("Product update rejected",
			zap.Uint("product_id", product.ID),
			zap.Any("errors", fieldErrors))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "Data tidak valid.",
			"errors":  fieldErrors,
		})
	}

	product.Name = name
	product.Description = description
	product.Category = category
	// Prices are whole rupiah; the looser numeric rule still lands in an
	// integer column.
	product.Price = int64(price)
	product.Rating = rating
	product.Status = status

	if photo != nil {
		// The previous file is left in place; only the recorded path moves.
		path, err := h.photos.Store(storage.ProductPhotoBucket, photo)
		if err != nil {
			log.Error("Failed to store product photo", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store photo"})
		}
		product.Photo = path
	}

	db := database.GetDB()
	if result := db.Save(product); result.Error != nil {
		log.Error("Failed to update product",
			zap.Uint("product_id", product.ID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}

	for _, fh := range promotionPhotos {
		path, err := h.photos.Store(storage.PromotionPhotoBucket, fh)
		if err != nil {
			log.Error("Failed to store promotion photo", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store photo"})
		}
		link := model.PromotionPhoto{ProductID: product.ID, Path: path}
		if result := db.Create(&link); result.Error != nil {
			log.Error("Failed to link promotion photo",
				zap.Uint("product_id", product.ID),
				zap.String("path", path),
				zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save promotion photo"})
		}
	}

	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.Uint("merchant_id", merchant.MerchantID),
		zap.Int("promotion_photos", len(promotionPhotos)))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Produk berhasil diperbarui.",
		"product": product,
	})
}

// Destroy handles deleting a product together with its favorites, comments
// and promotion photos. The three deletes and the product delete run in one
// transaction so a failure partway leaves nothing half-removed.
func (h *ProductHandler) Destroy(c echo.Context) error {
	log := logger.FromEcho(c)
	merchant := middleware.MerchantFromContext(c)
	if merchant == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	product, errResp := h.loadOwnedProduct(c, merchant.MerchantID)
	if errResp != nil {
		return errResp(c)
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("product_id = ?", product.ID).Delete(&model.Favorite{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("product_id = ?", product.ID).Delete(&model.Comment{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("product_id = ?", product.ID).Delete(&model.PromotionPhoto{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Delete(&model.Product{}, product.ID); result.Error != nil {
			return result.Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to delete product",
			zap.Uint("product_id", product.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}

	// Stored photo files are not removed; only database rows are.
	log.Info("Product deleted",
		zap.Uint("product_id", product.ID),
		zap.Uint("merchant_id", merchant.MerchantID))

	return c.NoContent(http.StatusNoContent)
}

// loadOwnedProduct loads the product addressed by the :id route parameter and
// checks it belongs to merchantID. On failure it returns a function rendering
// the appropriate response; ownership mismatch is a recoverable outcome, not
// a server error.
func (h *ProductHandler) loadOwnedProduct(c echo.Context, merchantID uint) (*model.Product, func(echo.Context) error) {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
		}
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Produk tidak ditemukan."})
			}
		}
		log.Error("Failed to load product", zap.Uint64("product_id", id), zap.Error(result.Error))
		return nil, func(c echo.Context) error {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
		}
	}

	if product.MerchantID != merchantID {
		log.Warn("Unauthorized product access attempt",
			zap.Uint("requesting_merchant_id", merchantID),
			zap.Uint("product_merchant_id", product.MerchantID),
			zap.Uint("product_id", product.ID))
		return nil, func(c echo.Context) error {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized access"})
		}
	}

	return &product, nil
}

// photoErrorMessage maps storage validation errors to field messages.
func photoErrorMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "Foto harus berformat jpg atau png."
	case errors.Is(err, storage.ErrFileTooLarge):
		return "Ukuran foto maksimal 2048 KB."
	default:
		return "Foto tidak valid."
	}
}
