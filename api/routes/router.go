package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/controllers"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/middleware"
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
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          authsvc.Service
	Users         userssvc.Service
	Categories    categoriessvc.Service
	Subcategories subcategoriessvc.Service
	Products      productssvc.Service
	Cart          cartsvc.Service
	Orders        orderssvc.Service
	Addresses     addresssvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	userResolver middleware.UserResolver,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(services.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(services.Auth, logg))
		})

		// Public catalog reads.
		r.Get("/categories", controllers.CategoryList(services.Categories, logg))
		r.Get("/subcategories", controllers.SubcategoryList(services.Subcategories, logg))
		r.Get("/products", controllers.ProductList(services.Products, logg))
		r.Get("/products/by-subcategory/{subcategoryId}", controllers.ProductListBySubcategory(services.Products, logg))

		// Authenticated customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, userResolver, logg))
			r.Use(middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", controllers.UserMe(services.Users, logg))
				r.Put("/", controllers.UserUpdateMe(services.Users, logg))
				r.Get("/favourites", controllers.UserFavouritesList(services.Users, logg))
				r.Post("/favourites", controllers.UserFavouriteAdd(services.Users, logg))
				r.Delete("/favourites/{productId}", controllers.UserFavouriteRemove(services.Users, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(services.Cart, logg))
				r.Post("/items", controllers.CartAddItem(services.Cart, logg))
				r.Put("/items", controllers.CartUpdateItem(services.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(services.Cart, logg))
				r.Delete("/", controllers.CartClear(services.Cart, logg))
				r.Post("/checkout", controllers.CheckoutOrder(services.Orders, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(services.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(services.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(services.Orders, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(services.Addresses, logg))
				r.Post("/", controllers.AddressCreate(services.Addresses, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(services.Addresses, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(services.Addresses, logg))
			})
		})

		// Catalog management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, userResolver, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/categories", controllers.CategoryCreate(services.Categories, logg))
			r.Put("/categories/{categoryId}", controllers.CategoryUpdate(services.Categories, logg))
			r.Delete("/categories/{categoryId}", controllers.CategoryDelete(services.Categories, logg))

			r.Post("/subcategories", controllers.SubcategoryCreate(services.Subcategories, logg))
			r.Put("/subcategories/{subcategoryId}", controllers.SubcategoryUpdate(services.Subcategories, logg))
			r.Delete("/subcategories/{subcategoryId}", controllers.SubcategoryDelete(services.Subcategories, logg))

			r.Post("/products", controllers.ProductCreate(services.Products, logg))
			r.Patch("/products/{productId}", controllers.ProductUpdate(services.Products, logg))
			r.Delete("/products/{productId}", controllers.ProductDelete(services.Products, logg))
		})
	})

	return r
}
