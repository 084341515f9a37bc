package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/internal/order"
	"github.com/nbbcoffee/coffeehub/pkg/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	dbContextKey    = "coffeehub_db"
	orderContextKey = "coffeehub_orders"
)

// Options carries the deployment knobs the API needs beyond the database.
type Options struct {
	Secret      string
	TokenExpiry time.Duration
	Mail        *mailer.Mailer
}

// handler binds the auth handlers to one server's options, several servers
// with different secrets can coexist in one process.
type handler struct {
	tokenSecret []byte
	tokenExpiry time.Duration
	mail        *mailer.Mailer
}

// Register wires every marketplace route onto e. List endpoints are public,
// mutations require a token and, for admin surfaces, the admin role.
func Register(e *echo.Echo, db *gorm.DB, opts Options) {
	h := &handler{
		tokenSecret: []byte(opts.Secret),
		tokenExpiry: opts.TokenExpiry,
		mail:        opts.Mail,
	}
	if h.tokenExpiry <= 0 {
		h.tokenExpiry = time.Hour
	}

	e.Use(injectDeps(db, order.NewService(db)))

	auth := echojwt.WithConfig(echojwt.Config{
		SigningKey: h.tokenSecret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
	})
	sellerOnly := requireRole(domain.RolePetani, domain.RoleAdmin)
	adminOnly := requireRole(domain.RoleAdmin)

	e.POST("/login", h.login)
	e.POST("/register", h.register)

	products := e.Group("/products")
	products.GET("/", listProducts)
	products.GET("/:username", listSellerProducts)
	products.POST("/", createProduct, auth, sellerOnly)
	products.PUT("/:id", updateProduct, auth, sellerOnly)
	products.DELETE("/:id", deleteProduct, auth, sellerOnly)

	orders := e.Group("/orders", auth)
	orders.POST("/", placeOrder)
	orders.GET("/my-orders/:username", listMyOrders)
	orders.GET("/incoming/:seller_username", listIncomingOrders)
	orders.PUT("/:id/status", updateOrderStatus)

	users := e.Group("/users", auth)
	users.GET("/:username", getProfile)
	users.PUT("/:username", updateProfile)

	blogs := e.Group("/blogs")
	blogs.GET("/", listBlogs)
	blogs.POST("/", createBlog, auth, adminOnly)
	blogs.PUT("/:id", updateBlog, auth, adminOnly)
	blogs.DELETE("/:id", deleteBlog, auth, adminOnly)

	prices := e.Group("/prices")
	prices.GET("/", listPrices)
	prices.POST("/", upsertPrice, auth, adminOnly)
	prices.DELETE("/:id", deletePrice, auth, adminOnly)

	admin := e.Group("/admin", auth, adminOnly)
	admin.GET("/stats", adminStats)
}

// injectDeps stores a request-scoped database session and the order service
// in the echo context, every handler gets its own released-on-exit handle.
func injectDeps(db *gorm.DB, svc *order.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db.WithContext(c.Request().Context()))
			c.Set(orderContextKey, svc)
			return next(c)
		}
	}
}

// GetDB returns the request-scoped database session.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

func orderService(c echo.Context) *order.Service {
	return c.Get(orderContextKey).(*order.Service)
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": code, "message": message})
}

// failDomain maps order-layer sentinel errors to HTTP responses.
func failDomain(c echo.Context, err error) error {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, order.ErrInsufficientStock):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, order.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
	}
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func tokenClaimsFrom(c echo.Context) *TokenClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireRole gates a route on the role embedded in the bearer token.
func requireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := tokenClaimsFrom(c)
			if claims == nil {
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token")
			}
			for _, role := range roles {
				if claims.Role == string(role) {
					return next(c)
				}
			}
			return fail(c, http.StatusForbidden, "FORBIDDEN", "Insufficient role for this operation")
		}
	}
}
