package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/classiccarrry/classic-carrry-backend/internal/cache"
	"github.com/classiccarrry/classic-carrry-backend/internal/cloudinary"
	"github.com/classiccarrry/classic-carrry-backend/internal/config"
	"github.com/classiccarrry/classic-carrry-backend/internal/database"
	"github.com/classiccarrry/classic-carrry-backend/internal/email"
	"github.com/classiccarrry/classic-carrry-backend/internal/handlers"
	"github.com/classiccarrry/classic-carrry-backend/internal/logging"
	"github.com/classiccarrry/classic-carrry-backend/internal/middleware"
)

func main() {
	config.Load()
	logger := logging.Init("api", config.AppEnv.LogFile)

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logger.Error("mongodb connection failed", "error", err)
		panic(err)
	}
	db := client.Database(config.AppEnv.DBName)
	logger.Info("mongodb connected", "db", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		logger.Warn("product index warning", "error", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		logger.Warn("category index warning", "error", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		logger.Warn("order index warning", "error", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		logger.Warn("coupon index warning", "error", err)
	}
	if err := database.EnsureNewsletterIndexes(db); err != nil {
		logger.Warn("newsletter index warning", "error", err)
	}

	var mailer email.Mailer = &email.LogMailer{Logger: logger}
	if config.AppEnv.SMTPHost != "" {
		mailer = email.NewSMTPMailer(
			config.AppEnv.SMTPHost,
			config.AppEnv.SMTPPort,
			config.AppEnv.SMTPUser,
			config.AppEnv.SMTPPass,
			config.AppEnv.EmailFrom,
			config.AppEnv.EmailFromName,
		)
		logger.Info("smtp mailer enabled", "host", config.AppEnv.SMTPHost)
	} else {
		logger.Warn("SMTP not configured, emails will only be logged")
	}

	images := cloudinary.New(
		config.AppEnv.CloudinaryCloudName,
		config.AppEnv.CloudinaryAPIKey,
		config.AppEnv.CloudinaryAPISecret,
		config.AppEnv.CloudinaryFolder,
	)
	if !images.Configured() {
		logger.Warn("Cloudinary not configured, image uploads disabled")
	}

	var idemp cache.IdempotencyStore
	if config.AppEnv.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr})
		idemp = cache.NewRedisIdempotencyStore(rdb, 24*time.Hour)
		logger.Info("redis idempotency store enabled", "addr", config.AppEnv.RedisAddr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(config.AppEnv.FrontendURL))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtSecret := config.AppEnv.JWTSecret
	adminAuth := middleware.AdminAuth(jwtSecret)
	userAuth := middleware.UserAuth(jwtSecret)

	api := r.Group("/api")

	api.GET("/health", handlers.Health(db))
	api.POST("/auth/admin/login", handlers.AdminLogin(db, jwtSecret, config.AppEnv.AccessTokenTTL))

	products := api.Group("/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/hot", handlers.GetHotProducts(db))
		products.GET("/category/:slug", handlers.GetProductsByCategory(db))
		products.GET("/categories/:productType", handlers.GetProductTypeCategories(db))
		products.GET("/:id", handlers.GetProductByKey(db))
		products.POST("", adminAuth, handlers.CreateProduct(db))
		products.PUT("/:id", adminAuth, handlers.UpdateProduct(db, images))
		products.DELETE("/:id", adminAuth, handlers.DeleteProduct(db))
	}

	categories := api.Group("/categories")
	{
		categories.GET("", handlers.GetCategories(db))
		categories.GET("/featured/with-products", handlers.GetFeaturedCategories(db))
		categories.GET("/:id", handlers.GetCategoryByKey(db))
		categories.POST("", adminAuth, handlers.CreateCategory(db))
		categories.PUT("/:id", adminAuth, handlers.UpdateCategory(db))
		categories.DELETE("/:id", adminAuth, handlers.DeleteCategory(db))
	}

	orders := api.Group("/orders")
	{
		orders.POST("", handlers.CreateOrder(db, mailer, config.AppEnv.OwnerEmail))
		orders.GET("/myorders", userAuth, handlers.GetMyOrders(db))
		orders.GET("", adminAuth, handlers.GetOrders(db))
		orders.GET("/:id", handlers.GetOrderByNumber(db))
		orders.PUT("/:id/status", adminAuth, handlers.UpdateOrderStatus(db, mailer, config.AppEnv.FrontendURL))
	}

	coupons := api.Group("/coupons")
	{
		coupons.GET("/check-active", handlers.CheckActiveCoupons(db))
		coupons.GET("/validate/:code", handlers.ValidateCoupon(db))
		coupons.POST("/validate", handlers.ValidateCoupon(db))
		coupons.POST("/apply", handlers.ApplyCoupon(db, idemp))
		coupons.GET("", adminAuth, handlers.GetAllCoupons(db))
		coupons.GET("/:id", adminAuth, handlers.GetCouponByID(db))
		coupons.POST("", adminAuth, handlers.CreateCoupon(db))
		coupons.PUT("/:id", adminAuth, handlers.UpdateCoupon(db))
		coupons.DELETE("/:id", adminAuth, handlers.DeleteCoupon(db))
		coupons.PATCH("/:id/toggle", adminAuth, handlers.ToggleCouponStatus(db))
	}

	contact := api.Group("/contact")
	{
		contact.POST("", handlers.SubmitContact(db, mailer))
		contact.GET("", adminAuth, handlers.GetContacts(db))
		contact.GET("/stats", adminAuth, handlers.GetContactStats(db))
		contact.GET("/:id", adminAuth, handlers.GetContactByID(db))
		contact.PUT("/:id/status", adminAuth, handlers.UpdateContactStatus(db))
		contact.POST("/:id/reply", adminAuth, handlers.ReplyToContact(db, mailer))
		contact.DELETE("/:id", adminAuth, handlers.DeleteContact(db))
	}

	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", handlers.Subscribe(db))
		newsletter.POST("/unsubscribe", handlers.Unsubscribe(db))
		newsletter.GET("", adminAuth, handlers.GetSubscribers(db))
		newsletter.DELETE("/:id", adminAuth, handlers.DeleteSubscriber(db))
	}

	hero := api.Group("/hero-images")
	{
		hero.GET("", handlers.GetActiveHeroImages(db))
		hero.GET("/admin", adminAuth, handlers.GetAllHeroImages(db))
		hero.GET("/:id", adminAuth, handlers.GetHeroImageByID(db))
		hero.POST("", adminAuth, handlers.CreateHeroImage(db))
		hero.PUT("/:id", adminAuth, handlers.UpdateHeroImage(db, images))
		hero.PATCH("/:id/toggle-status", adminAuth, handlers.ToggleHeroImage(db))
		hero.DELETE("/:id", adminAuth, handlers.DeleteHeroImage(db, images))
	}

	settings := api.Group("/settings")
	{
		settings.GET("/contact", handlers.GetContactInfo(db))
		settings.PUT("/contact", adminAuth, handlers.UpdateContactInfo(db))
		settings.GET("/faqs", handlers.GetFAQs(db))
		settings.GET("/faqs/:id", handlers.GetFAQByID(db))
		settings.POST("/faqs", adminAuth, handlers.CreateFAQ(db))
		settings.PUT("/faqs/:id", adminAuth, handlers.UpdateFAQ(db))
		settings.DELETE("/faqs/:id", adminAuth, handlers.DeleteFAQ(db))
		settings.GET("/appearance", handlers.GetAppearanceSettings(db))
		settings.PUT("/appearance", adminAuth, handlers.UpdateAppearanceSettings(db))
		settings.GET("/general", handlers.GetGeneralSettings(db))
		settings.PUT("/general", adminAuth, handlers.UpdateGeneralSettings(db))
	}

	upload := api.Group("/upload", adminAuth)
	{
		upload.POST("", handlers.UploadImage(images))
		upload.POST("/multiple", handlers.UploadImages(images))
		upload.DELETE("", handlers.DeleteImage(images))
	}

	logger.Info("server starting", "port", config.AppEnv.Port)
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
