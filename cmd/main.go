package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/api"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/config"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/consumer"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/events"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/repository"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/service"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
	"github.com/cybe4sent1nel/CRASHKART-sub005/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	cfg := config.LoadConfig()

	db1, err := connectDBEnv(os.Getenv("DB1_HOST"), os.Getenv("DB1_PORT"), os.Getenv("DB1_USER"), os.Getenv("DB1_PASS"), os.Getenv("DB1_NAME"))
	if err != nil {
		panic(err)
	}
	db2, err := connectDBEnv(os.Getenv("DB2_HOST"), os.Getenv("DB2_PORT"), os.Getenv("DB2_USER"), os.Getenv("DB2_PASS"), os.Getenv("DB2_NAME"))
	if err != nil {
		panic(err)
	}
	db3, err := connectDBEnv(os.Getenv("DB3_HOST"), os.Getenv("DB3_PORT"), os.Getenv("DB3_USER"), os.Getenv("DB3_PASS"), os.Getenv("DB3_NAME"))
	if err != nil {
		panic(err)
	}
	usersDB, err := connectDBEnv(os.Getenv("USERS_DB_HOST"), os.Getenv("USERS_DB_PORT"), os.Getenv("USERS_DB_USER"), os.Getenv("USERS_DB_PASS"), cfg.UsersDBName)
	if err != nil {
		panic(err)
	}

	shards := []*sql.DB{db1, db2, db3}

	if err := migrations.AutoMigrateProducts(3, shards...); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateFlashSales(3, shards...); err != nil {
		log.Fatalf("Failed to migrate flash sale tables: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, shards...); err != nil {
		log.Fatalf("Failed to migrate order tables: %v", err)
	}
	if err := migrations.AutoMigrateReturns(3, shards...); err != nil {
		log.Fatalf("Failed to migrate returns table: %v", err)
	}
	if err := migrations.AutoMigrateCoupons(3, shards...); err != nil {
		log.Fatalf("Failed to migrate coupons table: %v", err)
	}
	if err := migrations.AutoMigrateUsers(3, usersDB); err != nil {
		log.Fatalf("Failed to migrate user tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic)
	producer := events.NewProducer(kafkaWriter)
	defer producer.Close()

	router := sharding.NewShardRouter(cfg.ShardCount)

	productRepo := repository.NewProductRepository(shards, router)
	saleRepo := repository.NewFlashSaleRepository(shards, router)
	orderRepo := repository.NewOrderRepository(shards, router)
	returnRepo := repository.NewReturnRepository(shards, router)
	couponRepo := repository.NewCouponRepository(shards, router)
	userRepo := repository.NewUserRepository(usersDB)

	stockService := service.NewStockService(productRepo, producer, rdb)
	saleService := service.NewFlashSaleService(saleRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, couponRepo, producer, rdb)
	returnService := service.NewReturnService(returnRepo, orderRepo, orderService, producer)
	couponService := service.NewCouponService(couponRepo)
	userService := service.NewUserService(userRepo, rdb, cfg.JWTSecret)

	orderHandler := api.NewOrderHandler(orderService)
	productHandler := api.NewProductHandler(stockService)
	saleHandler := api.NewFlashSaleHandler(saleService)
	returnHandler := api.NewReturnHandler(returnService)
	couponHandler := api.NewCouponHandler(couponService)
	userHandler := api.NewUserHandler(userService)

	// notification worker
	notifier := consumer.NewNotifier(config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, "notification-group"), cfg.WebhookURL, cfg.SMTPFrom)
	go notifier.Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(1),
				Burst:     3,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)

	e.POST("/orders", orderHandler.CreateOrder)
	e.GET("/orders/:id", orderHandler.GetOrder)
	e.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	e.DELETE("/orders/:id", orderHandler.CancelOrder)

	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/:id/stock", productHandler.GetProductStock)
	e.POST("/products/update-stock", productHandler.UpdateStock)

	e.POST("/returns", returnHandler.CreateReturn)
	e.GET("/returns/:id", returnHandler.GetReturn)
	e.PATCH("/returns/:id", returnHandler.UpdateReturn)

	admin := e.Group("/admin")
	admin.Use(echojwt.JWT([]byte(cfg.JWTSecret)))
	admin.POST("/products", productHandler.CreateProduct)
	admin.PATCH("/orders/:id/items/:item_id/tracking", orderHandler.UpdateTracking)
	admin.POST("/flash-sales", saleHandler.CreateSale)
	admin.GET("/flash-sales", saleHandler.ListSales)
	admin.GET("/flash-sales/:id", saleHandler.GetSale)
	admin.PATCH("/flash-sales/:id", saleHandler.UpdateSale)
	admin.DELETE("/flash-sales/:id", saleHandler.DeleteSale)
	admin.POST("/coupons", couponHandler.CreateCoupon)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "order-inventory-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
