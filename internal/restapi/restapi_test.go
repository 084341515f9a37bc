package restapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	Register(e, db, Options{Secret: "test-secret", TokenExpiry: time.Hour})
	return e, db
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerAccount(t *testing.T, e *echo.Echo, username, role string) {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/register", "",
		`{"email":"`+username+`@example.com","username":"`+username+`","password":"rahasia1","role":"`+role+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func loginToken(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/login", "",
		`{"username":"`+username+`","password":"rahasia1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	e, db := newTestServer(t)

	registerAccount(t, e, "budi", "pembeli")

	var user domain.User
	require.NoError(t, db.Where("username = ?", "budi").First(&user).Error)
	assert.True(t, user.Verified)
	assert.Equal(t, domain.RolePembeli, user.Role)
	assert.NotEqual(t, "rahasia1", user.Password, "password must be stored hashed")

	rec := doJSON(e, http.MethodPost, "/login", "", `{"username":"budi","password":"rahasia1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "pembeli", body["role"])

	rec = doJSON(e, http.MethodPost, "/login", "", `{"username":"budi","password":"salah"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/login", "", `{"username":"ghost","password":"rahasia1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterIsReentrantAcrossServers(t *testing.T) {
	e1, _ := newTestServer(t)
	registerAccount(t, e1, "budi", "pembeli")
	token := loginToken(t, e1, "budi")

	// a second server with its own secret must not rewire the first
	e2 := echo.New()
	e2.Validator = &testValidator{validate: validator.New()}
	db2, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB2, err := db2.DB()
	require.NoError(t, err)
	sqlDB2.SetMaxOpenConns(1)
	require.NoError(t, db2.AutoMigrate(domain.Tables...))
	Register(e2, db2, Options{Secret: "another-secret", TokenExpiry: time.Hour})

	rec := doJSON(e1, http.MethodGet, "/users/budi", token, "")
	assert.Equal(t, http.StatusOK, rec.Code, "first server keeps its own secret")

	rec = doJSON(e2, http.MethodGet, "/users/budi", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "foreign token is rejected")
}

func TestRegisterRejectsDuplicatesAndBadRoles(t *testing.T) {
	e, _ := newTestServer(t)
	registerAccount(t, e, "budi", "pembeli")

	// same username, different email
	rec := doJSON(e, http.MethodPost, "/register", "",
		`{"email":"other@example.com","username":"budi","password":"rahasia1","role":"pembeli"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DUPLICATE_USER", decodeBody(t, rec)["error"])

	// same email, different username
	rec = doJSON(e, http.MethodPost, "/register", "",
		`{"email":"budi@example.com","username":"budi2","password":"rahasia1","role":"pembeli"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/register", "",
		`{"email":"x@example.com","username":"xuser","password":"rahasia1","role":"sultan"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ROLE", decodeBody(t, rec)["error"])
}

func TestProductRoutesEnforceRoles(t *testing.T) {
	e, _ := newTestServer(t)
	registerAccount(t, e, "tani", "petani")
	registerAccount(t, e, "budi", "pembeli")

	payload := `{"name":"Arabika Gayo","price":120000,"stock":10,"seller_username":"tani"}`

	rec := doJSON(e, http.MethodPost, "/products/", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

	rec = doJSON(e, http.MethodPost, "/products/", loginToken(t, e, "budi"), payload)
	assert.Equal(t, http.StatusForbidden, rec.Code, "buyers cannot create products")

	rec = doJSON(e, http.MethodPost, "/products/", loginToken(t, e, "tani"), payload)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "tani", body["seller_name"])
}

func TestProductCreateListUpdateDelete(t *testing.T) {
	e, db := newTestServer(t)
	registerAccount(t, e, "tani", "petani")
	token := loginToken(t, e, "tani")

	rec := doJSON(e, http.MethodPost, "/products/", token,
		`{"name":"Arabika Gayo","description":"single origin","price":120000,"stock":10,"seller_username":"tani"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/products/", token,
		`{"name":"Phantom","price":1,"stock":1,"seller_username":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SELLER_NOT_FOUND", decodeBody(t, rec)["error"])

	rec = doJSON(e, http.MethodGet, "/products/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "tani", listed[0]["seller_name"])

	rec = doJSON(e, http.MethodGet, "/products/tani", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = doJSON(e, http.MethodGet, "/products/ghost", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed, "unknown seller lists as empty")

	var product domain.Product
	require.NoError(t, db.Where("name = ?", "Arabika Gayo").First(&product).Error)
	id := common.Int64String(product.ID)

	// partial update leaves unset fields alone
	rec = doJSON(e, http.MethodPut, "/products/"+id, token, `{"price":130000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, db.First(&product, product.ID).Error)
	assert.Equal(t, int64(130000), product.Price)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, "single origin", product.Description)

	rec = doJSON(e, http.MethodPut, "/products/"+id, token, `{"stock":-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "negative stock must be rejected")
	require.NoError(t, db.First(&product, product.ID).Error)
	assert.Equal(t, 10, product.Stock)

	rec = doJSON(e, http.MethodPut, "/products/424242", token, `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/products/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodDelete, "/products/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	e, db := newTestServer(t)
	registerAccount(t, e, "tani", "petani")
	registerAccount(t, e, "budi", "pembeli")
	sellerToken := loginToken(t, e, "tani")
	buyerToken := loginToken(t, e, "budi")

	rec := doJSON(e, http.MethodPost, "/products/", sellerToken,
		`{"name":"Arabika Gayo","price":120000,"stock":5,"seller_username":"tani"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	require.NoError(t, db.Where("name = ?", "Arabika Gayo").First(&product).Error)
	id := common.Int64String(product.ID)

	rec = doJSON(e, http.MethodPost, "/orders/", buyerToken,
		`{"buyer_username":"budi","items":[{"product_id":"`+id+`","quantity":2}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	orderID, _ := decodeBody(t, rec)["order_id"].(string)
	require.NotEmpty(t, orderID)

	rec = doJSON(e, http.MethodPost, "/orders/", buyerToken,
		`{"buyer_username":"budi","items":[{"product_id":"`+id+`","quantity":10}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeBody(t, rec)["error"])

	rec = doJSON(e, http.MethodGet, "/orders/my-orders/budi", buyerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)

	rec = doJSON(e, http.MethodGet, "/orders/incoming/tani", sellerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "budi", views[0]["buyer_name"])

	rec = doJSON(e, http.MethodPut, "/orders/"+orderID+"/status", sellerToken, `{"status":"Shipped"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPut, "/orders/"+orderID+"/status", sellerToken, `{"status":"Vanished"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileUpdateIsPartial(t *testing.T) {
	e, _ := newTestServer(t)
	registerAccount(t, e, "tani", "petani")
	token := loginToken(t, e, "tani")

	rec := doJSON(e, http.MethodPut, "/users/tani", token,
		`{"full_name":"Pak Tani","city":"Takengon","shop_name":"Kebun Gayo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPut, "/users/tani", token, `{"city":"Bener Meriah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Bener Meriah", body["city"])
	assert.Equal(t, "Pak Tani", body["full_name"], "untouched fields survive")
	assert.Equal(t, "Kebun Gayo", body["shop_name"])

	rec = doJSON(e, http.MethodGet, "/users/ghost", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogAndPriceAdminOnly(t *testing.T) {
	e, db := newTestServer(t)
	registerAccount(t, e, "admin1", "admin")
	registerAccount(t, e, "budi", "pembeli")
	adminToken := loginToken(t, e, "admin1")
	buyerToken := loginToken(t, e, "budi")

	rec := doJSON(e, http.MethodPost, "/blogs/", buyerToken,
		`{"title":"t","content":"c","author_username":"budi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/blogs/", adminToken,
		`{"title":"Panen Raya","content":"Musim panen dimulai.","author_username":"admin1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/blogs/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var blogs []map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &blogs))
	require.Len(t, blogs, 1)

	// price upsert keeps one row per coffee type
	rec = doJSON(e, http.MethodPost, "/prices/", adminToken,
		`{"coffee_type":"Arabika","price":95000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/prices/", adminToken,
		`{"coffee_type":"Arabika","price":98000,"description":"naik"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&domain.CoffeePrice{}).Where("coffee_type = ?", "Arabika").Count(&count)
	assert.Equal(t, int64(1), count)
	var price domain.CoffeePrice
	require.NoError(t, db.Where("coffee_type = ?", "Arabika").First(&price).Error)
	assert.Equal(t, int64(98000), price.Price)
	assert.Equal(t, "naik", price.Description)

	rec = doJSON(e, http.MethodDelete, "/prices/"+common.Int64String(price.ID), buyerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(e, http.MethodDelete, "/prices/"+common.Int64String(price.ID), adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminStats(t *testing.T) {
	e, db := newTestServer(t)
	registerAccount(t, e, "admin1", "admin")
	registerAccount(t, e, "budi", "pembeli")
	adminToken := loginToken(t, e, "admin1")
	buyerToken := loginToken(t, e, "budi")

	rec := doJSON(e, http.MethodGet, "/admin/stats", buyerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/admin/stats", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["total_users"])
	assert.EqualValues(t, 0, body["total_petani"])
	assert.EqualValues(t, 0, body["total_products"])
	assert.EqualValues(t, 0, body["total_stock"])
	assert.EqualValues(t, 0, body["total_orders"])
	assert.EqualValues(t, 0, body["total_revenue"])

	registerAccount(t, e, "tani", "petani")
	sellerToken := loginToken(t, e, "tani")
	rec = doJSON(e, http.MethodPost, "/products/", sellerToken,
		`{"name":"Arabika Gayo","price":120000,"stock":7,"seller_username":"tani"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	require.NoError(t, db.Where("name = ?", "Arabika Gayo").First(&product).Error)
	rec = doJSON(e, http.MethodPost, "/orders/", buyerToken,
		`{"buyer_username":"budi","items":[{"product_id":"`+common.Int64String(product.ID)+`","quantity":2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/admin/stats", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 3, body["total_users"])
	assert.EqualValues(t, 1, body["total_petani"])
	assert.EqualValues(t, 1, body["total_products"])
	assert.EqualValues(t, 5, body["total_stock"])
	assert.EqualValues(t, 1, body["total_orders"])
	assert.EqualValues(t, 240000, body["total_revenue"])
}
