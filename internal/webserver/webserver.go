package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nbbcoffee/coffeehub/internal/app"
	"github.com/nbbcoffee/coffeehub/internal/restapi"
	"github.com/nbbcoffee/coffeehub/pkg/mailer"
	"go.uber.org/zap"
)

// WebServer hosts the marketplace REST API on a single echo instance.
type WebServer struct {
	app  *app.Application
	root *echo.Echo
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type jsoniterSerializer struct{}

func (jsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func NewWebServer(application *app.Application) *WebServer {
	s := &WebServer{app: application, root: echo.New()}
	cfg := application.Config()

	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.JSONSerializer = jsoniterSerializer{}
	s.root.Validator = &payloadValidator{validate: validator.New()}

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Web.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	s.root.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				zap.L().Error("http request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Error(v.Error))
				return nil
			}
			zap.L().Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	s.root.Use(echoprometheus.NewMiddleware("coffeehub"))
	s.root.GET("/metrics", echoprometheus.NewHandler())

	restapi.Register(s.root, application.DB(), restapi.Options{
		Secret:      cfg.Web.Secret,
		TokenExpiry: time.Duration(cfg.Web.JwtExpire) * time.Minute,
		Mail:        mailer.New(cfg.Smtp),
	})
	return s
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *WebServer) Start() error {
	cfg := s.app.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
