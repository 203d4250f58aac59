package Controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/middlewares"
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

func setupTestDBForLive(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		panic(err)
	}
	return db
}

// The feed gate runs before the websocket upgrade, so a plain handler
// behind the middleware is enough to observe its verdict.
func setupLiveGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	live := r.Group("/admin/live")
	live.Use(middlewares.WebSocketAuthMiddleware())
	live.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestLiveFeedGateChecksAdminAccount(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForLive("live_gate")
	utils.InitDB(db)
	router := setupLiveGateRouter()

	// the username must differ from the one TestLogoutRevokesToken logs out
	// with: HS256 tokens are deterministic, and identical claims minted in
	// the same second would reproduce the blacklisted token byte-for-byte
	admin := models.Admin{Username: "live-admin", Password: "irrelevant"}
	assert.NoError(t, db.Create(&admin).Error)

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	assert.NoError(t, err)

	get := func(token string) int {
		req, _ := http.NewRequest("GET", "/admin/live?token="+token, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// live account passes, no token does not
	assert.Equal(t, http.StatusOK, get(token))
	assert.Equal(t, http.StatusUnauthorized, get(""))

	// the token outliving the account must stop working
	assert.NoError(t, db.Delete(&models.Admin{}, admin.ID).Error)
	assert.Equal(t, http.StatusUnauthorized, get(token))
}
