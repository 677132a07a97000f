package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/teknetau/gestion_backend/config"
	"github.com/teknetau/gestion_backend/handlers"
	"github.com/teknetau/gestion_backend/middlewares"
	"github.com/teknetau/gestion_backend/models"
	"github.com/teknetau/gestion_backend/utils"
)

const defaultPort = "8080"

func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
			return utils.ValidateRut(fl.Field().String()) == nil
		})
	}
}

func registerRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/password-reset", handlers.RequestPasswordReset)
	api.POST("/auth/password-reset/confirm", handlers.ConfirmPasswordReset)

	authed := api.Group("")
	authed.Use(middlewares.AuthMiddleware())

	authed.POST("/auth/logout", handlers.Logout)

	authed.GET("/regions", handlers.GetRegions)
	authed.GET("/cities", handlers.GetCities)
	authed.GET("/communes", handlers.GetCommunes)
	authed.GET("/document-types", handlers.GetDocumentTypes)
	authed.GET("/payment-types", handlers.GetPaymentTypes)
	authed.GET("/transaction-types", handlers.GetTransactionTypes)

	authed.GET("/parties", handlers.GetParties)
	authed.POST("/parties", handlers.CreateParty)
	authed.GET("/parties/:id", handlers.GetParty)
	authed.PUT("/parties/:id", handlers.UpdateParty)
	authed.POST("/parties/:id/deactivate", handlers.DeactivateParty)
	authed.DELETE("/parties/:id", handlers.DeleteParty)

	authed.GET("/products", handlers.GetProducts)
	authed.POST("/products", handlers.CreateProduct)
	authed.GET("/products/:id", handlers.GetProduct)
	authed.PUT("/products/:id", handlers.UpdateProduct)
	authed.DELETE("/products/:id", handlers.DeleteProduct)

	authed.GET("/projects", handlers.GetProjects)
	authed.POST("/projects", handlers.CreateProject)
	authed.GET("/projects/:id", handlers.GetProject)
	authed.GET("/projects/:id/summary", handlers.GetProjectSummary)
	authed.PUT("/projects/:id", handlers.UpdateProject)
	authed.DELETE("/projects/:id", handlers.DeleteProject)

	authed.GET("/documents", handlers.GetDocuments)
	authed.POST("/documents", handlers.CreateDocument)
	authed.GET("/documents/:num", handlers.GetDocument)
	authed.PUT("/documents/:num", handlers.UpdateDocument)
	authed.DELETE("/documents/:num", handlers.DeleteDocument)
	authed.POST("/documents/:num/payments", handlers.RecordDocumentPayment)
	authed.POST("/documents/:num/detach-project", handlers.DetachDocumentFromProject)

	admin := authed.Group("")
	admin.Use(middlewares.AdminOnly())

	admin.GET("/users", handlers.GetUsers)
	admin.POST("/users", handlers.CreateUser)
	admin.GET("/users/:id", handlers.GetUser)
	admin.PUT("/users/:id", handlers.UpdateUser)
	admin.DELETE("/users/:id", handlers.DeactivateUser)
}

func main() {
	godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registerCustomValidators()

	// Start the HTTP server before the database is ready so the startup
	// probe passes; app endpoints return 503 until the connection is up.
	r := gin.New()
	r.Use(middlewares.CorrelationId())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// deny all when unconfigured in production
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "X-Correlation-Id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate can run blocking DDL; allow running it as a separate job.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.MigrateAll(); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Panic(err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api/v1")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that accumulated errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
