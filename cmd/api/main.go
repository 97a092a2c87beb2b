package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/routes"
	addresssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/address"
	authsvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/auth"
	cartsvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/cart"
	categoriessvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/categories"
	orderssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/orders"
	productssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/products"
	subcategoriessvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/subcategories"
	userssvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/users"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/migrate"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := userssvc.NewRepository(dbClient.DB())
	categoryRepo := categoriessvc.NewRepository(dbClient.DB())
	subcategoryRepo := subcategoriessvc.NewRepository(dbClient.DB())
	productRepo := productssvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := orderssvc.NewRepository(dbClient.DB())
	addressRepo := addresssvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := userssvc.NewService(userRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	subcategoriesService, err := subcategoriessvc.NewService(subcategoryRepo, categoryRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create subcategories service", err)
		os.Exit(1)
	}

	categoriesService, err := categoriessvc.NewService(categoryRepo, dbClient, subcategoryRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	productsService, err := productssvc.NewService(productRepo, dbClient, categoryRepo, subcategoryRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, dbClient, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orderssvc.NewService(orderssvc.ServiceParams{
		Repo:      orderRepo,
		TxRunner:  dbClient,
		Carts:     cartRepo,
		Products:  productRepo,
		Addresses: addressRepo,
		Config:    cfg.Checkout,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	addressesService, err := addresssvc.NewService(addressRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, userRepo, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Categories:    categoriesService,
			Subcategories: subcategoriesService,
			Products:      productsService,
			Cart:          cartService,
			Orders:        ordersService,
			Addresses:     addressesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
