package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetProductsByCategory -> storefront list for one category
// Endpoint: GET /products/by-category?category=<id>
func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	categoryIDStr := c.Query("category")
	if categoryIDStr == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'category' is required"))
		return
	}

	categoryID, err := strconv.Atoi(categoryIDStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category ID"))
		return
	}

	var products []models.Product
	if err := pc.DB.Where("category_id = ?", categoryID).
		Order("name").
		Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Products for category", products)
}

// productRow is the admin view of a product joined with its category name.
type productRow struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Image        *string   `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetAllProducts -> admin list of every product with its category name
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	var rows []productRow
	if err := pc.DB.Model(&models.Product{}).
		Select("products.id, products.category_id, categories.name AS category_name, products.name, products.price, products.image, products.created_at").
		Joins("JOIN categories ON categories.id = products.category_id").
		Order("categories.name, products.name").
		Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All products", rows)
}

// CreateProduct
func (pc *ProductController) CreateProduct(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("product name is required"))
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
		return
	}

	var category models.Category
	if err := pc.DB.First(&category, categoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category does not exist"))
		return
	}

	image, err := saveUploadedImage(c, "image")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	product := models.Product{
		CategoryID: uint(categoryID),
		Name:       name,
		Price:      price,
		Image:      image,
	}
	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> partial update, keeps the stored image unless a new
// file comes in
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	idStr := c.Param("product_id")
	id, _ := strconv.Atoi(idStr)

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if catStr := c.PostForm("category_id"); catStr != "" {
		categoryID, err := strconv.ParseUint(catStr, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		product.CategoryID = uint(categoryID)
	}

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		product.Name = name
	}

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
			return
		}
		product.Price = price
	}

	image, err := saveUploadedImage(c, "image")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if image != nil {
		product.Image = image
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> idempotent, a missing id is still a success
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	idStr := c.Param("product_id")
	id, _ := strconv.Atoi(idStr)

	if err := pc.DB.Delete(&models.Product{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
