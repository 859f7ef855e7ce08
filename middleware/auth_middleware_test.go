package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fieldtrack/database"
	"fieldtrack/utils"
)

const testSecret = "middleware-test-secret"

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "middleware_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.Admin{}, &database.SuperAdmin{}))
	return db
}

func seedAccounts(t *testing.T, db *gorm.DB) (database.Admin, database.SuperAdmin) {
	t.Helper()
	admin := database.Admin{Email: "mara@example.com", Name: "Mara Voss", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	superAdmin := database.SuperAdmin{Email: "root@example.com", Name: "Root", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&superAdmin).Error)
	return admin, superAdmin
}

func tokenFor(t *testing.T, accountID int64, tokenType string) string {
	t.Helper()
	token, err := utils.GenerateJWT(testSecret, accountID, tokenType, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func protectedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestAdminAuth(t *testing.T) {
	db := newAuthTestDB(t)
	admin, superAdmin := seedAccounts(t, db)
	router := protectedRouter(AdminAuth(db, testSecret))

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "garbage").Code)

	// a super-admin token never opens admin routes
	assert.Equal(t, http.StatusForbidden,
		doRequest(router, tokenFor(t, superAdmin.ID, utils.TokenTypeSuperAdmin)).Code)

	assert.Equal(t, http.StatusOK,
		doRequest(router, tokenFor(t, admin.ID, utils.TokenTypeAdmin)).Code)

	// unknown account id
	assert.Equal(t, http.StatusForbidden,
		doRequest(router, tokenFor(t, 999, utils.TokenTypeAdmin)).Code)
}

func TestAdminAuthInactiveAccount(t *testing.T) {
	db := newAuthTestDB(t)
	admin, _ := seedAccounts(t, db)
	require.NoError(t, db.Model(&database.Admin{}).Where("id = ?", admin.ID).Update("is_active", false).Error)

	router := protectedRouter(AdminAuth(db, testSecret))
	assert.Equal(t, http.StatusForbidden,
		doRequest(router, tokenFor(t, admin.ID, utils.TokenTypeAdmin)).Code)
}

func TestSuperAdminAuth(t *testing.T) {
	db := newAuthTestDB(t)
	admin, superAdmin := seedAccounts(t, db)
	router := protectedRouter(SuperAdminAuth(db, testSecret))

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)

	// an admin token never opens super-admin routes
	assert.Equal(t, http.StatusForbidden,
		doRequest(router, tokenFor(t, admin.ID, utils.TokenTypeAdmin)).Code)

	assert.Equal(t, http.StatusOK,
		doRequest(router, tokenFor(t, superAdmin.ID, utils.TokenTypeSuperAdmin)).Code)
}

func TestAnyAdminAuth(t *testing.T) {
	db := newAuthTestDB(t)
	admin, superAdmin := seedAccounts(t, db)
	router := protectedRouter(AnyAdminAuth(db, testSecret))

	assert.Equal(t, http.StatusOK,
		doRequest(router, tokenFor(t, admin.ID, utils.TokenTypeAdmin)).Code)
	assert.Equal(t, http.StatusOK,
		doRequest(router, tokenFor(t, superAdmin.ID, utils.TokenTypeSuperAdmin)).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
}

func TestContextAccessors(t *testing.T) {
	db := newAuthTestDB(t)
	admin, _ := seedAccounts(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AdminAuth(db, testSecret), func(c *gin.Context) {
		loaded, ok := AdminFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": loaded.Email})
	})

	w := doRequest(router, tokenFor(t, admin.ID, utils.TokenTypeAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mara@example.com")
}
