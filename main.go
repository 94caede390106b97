package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"midessories/internal/cartstore"
	"midessories/internal/config"
	"midessories/internal/database"
	"midessories/internal/handlers"
	"midessories/internal/mailer"
	"midessories/internal/middleware"
	"midessories/internal/notify"
	"midessories/internal/paystack"
	"midessories/internal/validation"
)

func main() {
	config.Load()
	validation.Register()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Printf("customer index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Printf("review index warning: %v", err)
	}
	if err := handlers.SeedDeliveryMethods(db); err != nil {
		log.Printf("delivery method seed warning: %v", err)
	}

	var mail mailer.Mailer
	if config.AppEnv.SMTPHost != "" {
		smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:     config.AppEnv.SMTPHost,
			Port:     config.AppEnv.SMTPPort,
			Username: config.AppEnv.SMTPUsername,
			Password: config.AppEnv.SMTPPassword,
			From:     config.AppEnv.SMTPFrom,
		})
		if err != nil {
			log.Fatal("smtp setup failed:", err)
		}
		mail = smtp
	} else {
		log.Println("SMTP_HOST not set, emails will be logged instead of delivered")
		mail = mailer.NewLogOnly()
	}

	bank := notify.BankDetails{
		BankName:      config.AppEnv.BankName,
		AccountNumber: config.AppEnv.BankAccountNumber,
		AccountName:   config.AppEnv.BankAccountName,
	}
	notifier := notify.NewDispatcher(mail, config.AppEnv.SiteURL, config.AppEnv.SupportEmail, bank)

	gateway := paystack.NewClient(config.AppEnv.PaystackSecretKey)
	if config.AppEnv.PaystackBaseURL != "" {
		gateway = gateway.WithBaseURL(config.AppEnv.PaystackBaseURL)
	}

	carts := cartstore.NewMongo(db)

	jwtSecret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()
	r.Static("/public", "./public")

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", handlers.Register(db, notifier, jwtSecret, accessTTL, refreshTTL))
	r.POST("/auth/login", handlers.Login(db, jwtSecret, accessTTL, refreshTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, jwtSecret, accessTTL, refreshTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(jwtSecret), handlers.GetMe(db))

	r.POST("/admin/login", handlers.AdminLogin(db, jwtSecret, accessTTL))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.GET("/products/:id/reviews", handlers.GetProductReviews(db))
	r.POST("/products/:id/reviews", middleware.OptionalUserAuth(jwtSecret), handlers.CreateReview(db))
	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/delivery/methods", handlers.GetDeliveryMethods(db))

	cart := r.Group("/cart")
	{
		cart.POST("", middleware.OptionalUserAuth(jwtSecret), handlers.CreateCart(carts))
		cart.GET("/:id", handlers.GetCart(carts))
		cart.POST("/:id/items", handlers.AddCartItem(db, carts))
		cart.PUT("/:id/items/:itemId", handlers.UpdateCartItemQuantity(carts))
		cart.DELETE("/:id/items/:itemId", handlers.RemoveCartItem(carts))
		cart.DELETE("/:id", handlers.ClearCart(carts))
	}

	r.POST("/checkout", middleware.OptionalUserAuth(jwtSecret), handlers.CreateOrder(db, notifier, config.AppEnv.PaystackPublicKey))
	r.GET("/checkout/transfer/:reference", handlers.GetTransferInstructions(db, bank))
	r.POST("/payments/paystack/verify", handlers.VerifyPayment(db, gateway, notifier))
	r.GET("/orders/:reference", handlers.GetOrderByReference(db, bank))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(jwtSecret))
	{
		user.GET("/me", handlers.GetMe(db))
		user.PUT("/me", handlers.UpdateMe(db))
		user.GET("/orders", handlers.GetUserOrders(db))
		user.GET("/cart", handlers.GetUserCart(carts))
		user.POST("/cart/claim/:id", handlers.ClaimCart(carts))

		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist", handlers.AddWishlistItem(db))
		user.POST("/wishlist/:productId", handlers.ToggleWishlistItem(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveWishlistItem(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(jwtSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.POST("/products/images", handlers.UploadProductImages())
		admin.DELETE("/products/images", handlers.DeleteProductImage())

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.GET("/orders/:reference", handlers.GetOrder(db))
		admin.PUT("/orders/:reference/status", handlers.UpdateOrderStatus(db, notifier))
		admin.POST("/orders/:reference/payment/confirm", handlers.ConfirmTransferPayment(db, notifier))
		admin.POST("/orders/:reference/refund", handlers.RefundOrder(db, notifier))

		admin.GET("/customers", handlers.GetAllCustomers(db))
		admin.GET("/customers/:id", handlers.GetCustomer(db))
		admin.PUT("/customers/:id", handlers.UpdateCustomer(db))
		admin.DELETE("/customers/:id", handlers.DeleteCustomer(db))

		admin.GET("/reviews", handlers.GetAllReviews(db))
		admin.PUT("/reviews/:id/status", handlers.UpdateReviewStatus(db))
		admin.POST("/reviews/:id/response", handlers.RespondToReview(db))
		admin.DELETE("/reviews/:id", handlers.DeleteReview(db))

		admin.POST("/delivery/seed", handlers.SeedDeliveryMethodsEndpoint(db))
		admin.GET("/delivery/methods", handlers.GetAllDeliveryMethods(db))
		admin.PUT("/delivery/methods/:id", handlers.UpdateDeliveryMethod(db))
		admin.GET("/delivery/zones", handlers.GetDeliveryZones(db))
		admin.POST("/delivery/zones", handlers.CreateDeliveryZone(db))
		admin.DELETE("/delivery/zones/:id", handlers.DeleteDeliveryZone(db))
	}

	cron := r.Group("/cron")
	cron.Use(middleware.CronAuth(config.AppEnv.CronSecret))
	{
		cron.GET("/abandoned-carts", handlers.SweepAbandonedCarts(db, notifier))
	}

	log.Println("listening on port", config.AppEnv.Port)
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
