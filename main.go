package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/config"
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/router"
	"github.com/antonkhv/shop-app/utils"
)

func init() {
	// .env first, everything after reads the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedDefaultAdmin(db)
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		seedDemoCatalog(db)
	}

	// expired logout tokens get swept hourly
	go func() {
		for {
			time.Sleep(time.Hour)
			utils.CleanupBlacklist()
		}
	}()

	r := router.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedDefaultAdmin creates the initial admin account on an empty
// database so the panel is reachable on first boot.
func seedDefaultAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to hash default admin password: %v", err)
		return
	}

	admin := models.Admin{
		Username: username,
		Password: string(hashed),
	}
	if err := db.Create(&admin).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to seed default admin: %v", err)
		return
	}
	utils.InfoLogger.Printf("Created default admin account %q", username)
}

// seedDemoCatalog fills an empty database with a small demo catalog so
// the storefront has something to show right after the first boot.
func seedDemoCatalog(db *gorm.DB) {
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	ptr := func(s string) *string { return &s }

	categories := []models.Category{
		{Name: "Winston", Image: ptr("winston.jpg")},
		{Name: "LD", Image: ptr("LD.jpg")},
		{Name: "Parliament", Image: ptr("parliament.jpg")},
		{Name: "Marlboro", Image: ptr("marlboro.jpg")},
		{Name: "Captain Black", Image: ptr("capitanblack.jpg")},
	}
	if err := db.Create(&categories).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to seed demo categories: %v", err)
		return
	}

	products := []models.Product{
		{CategoryID: categories[0].ID, Name: "Winston Blue", Price: 150},
		{CategoryID: categories[0].ID, Name: "Winston Red", Price: 150},
		{CategoryID: categories[0].ID, Name: "Winston Silver", Price: 145},
		{CategoryID: categories[1].ID, Name: "LD Blue", Price: 130},
		{CategoryID: categories[1].ID, Name: "LD Red", Price: 130},
		{CategoryID: categories[2].ID, Name: "Parliament Aqua Blue", Price: 180},
		{CategoryID: categories[2].ID, Name: "Parliament Night Blue", Price: 180},
		{CategoryID: categories[3].ID, Name: "Marlboro Red", Price: 170},
		{CategoryID: categories[3].ID, Name: "Marlboro Gold", Price: 170},
		{CategoryID: categories[4].ID, Name: "Captain Black Dark Crema", Price: 200},
		{CategoryID: categories[4].ID, Name: "Captain Black Cherry", Price: 200},
	}
	for i := range products {
		products[i].Image = ptr("nophoto.jpg")
	}
	if err := db.Create(&products).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to seed demo products: %v", err)
		return
	}
	utils.InfoLogger.Printf("Seeded demo catalog: %d categories, %d products", len(categories), len(products))
}
