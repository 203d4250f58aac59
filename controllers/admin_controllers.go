package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> the numbers the admin panel header shows
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders  int64   `json:"total_orders"`
		TodayOrders  int64   `json:"today_orders"`
		TotalRevenue float64 `json:"total_revenue"`
		OrderStats   struct {
			New        int64 `json:"new"`
			Processing int64 `json:"processing"`
			Completed  int64 `json:"completed"`
		} `json:"order_stats"`
	}

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusNew).Count(&stats.OrderStats.New)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusProcessing).Count(&stats.OrderStats.Processing)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.StatusCompleted).Count(&stats.OrderStats.Completed)

	ac.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&stats.TotalRevenue)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// ExportOrders -> CSV download of every order with its item count
func (ac *AdminController) ExportOrders(c *gin.Context) {
	var rows []orderRow
	if err := ac.DB.Model(&models.Order{}).
		Select("orders.id, orders.shop_name, orders.phone, orders.email, orders.total_amount, orders.status, orders.created_at, COUNT(order_items.id) AS items_count").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Group("orders.id").
		Order("orders.created_at DESC").
		Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"id", "shop_name", "phone", "email", "total_amount", "status", "created_at", "items_count"})

	for _, row := range rows {
		w.Write([]string{
			fmt.Sprintf("%d", row.ID),
			row.ShopName,
			derefOrEmpty(row.Phone),
			derefOrEmpty(row.Email),
			fmt.Sprintf("%.2f", row.TotalAmount),
			row.Status,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", row.ItemsCount),
		})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		utils.ErrorLogger.Printf("orders export write error: %v", err)
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
