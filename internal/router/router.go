package router

import (
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/handler"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/service"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, verifier *infra.WebhookVerifier) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var gateway service.PayPalGateway
	if cfg.PayPalClientID != "" {
		gateway = infra.NewPayPalClient(cfg)
	}
	var webhookVerifier service.WebhookVerifier
	if verifier != nil {
		webhookVerifier = verifier
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	dogRepo := repository.NewDogRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	anamnesisRepo := repository.NewAnamnesisRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	settingsSvc := service.NewSettingsService(settingRepo, rdb)
	authSvc := service.NewAuthService(userRepo, customerRepo, dispatcher, cfg)
	customerSvc := service.NewCustomerService(customerRepo, userRepo, invoiceRepo)
	dogSvc := service.NewDogService(dogRepo, customerRepo)
	courseSvc := service.NewCourseService(courseRepo)
	bookingSvc := service.NewBookingService(bookingRepo, courseRepo, dogRepo, creditRepo, dispatcher)
	trainingSvc := service.NewTrainingService(trainingRepo, dogRepo, cfg.UploadStoragePath)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, paymentRepo, customerRepo, settingsSvc, dispatcher, cfg)
	creditSvc := service.NewCreditService(creditRepo, invoiceSvc)
	paymentSvc := service.NewPaymentService(invoiceRepo, paymentRepo, invoiceSvc, gateway, webhookVerifier)
	anamnesisSvc := service.NewAnamnesisService(anamnesisRepo, customerRepo, dogRepo)
	dashboardSvc := service.NewDashboardService(db)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, userRepo)
	customersH := handler.NewCustomersHandler(customerSvc)
	dogsH := handler.NewDogsHandler(dogSvc)
	coursesH := handler.NewCoursesHandler(courseSvc)
	bookingsH := handler.NewBookingsHandler(bookingSvc)
	trainingH := handler.NewTrainingHandler(trainingSvc)
	creditsH := handler.NewCreditsHandler(creditSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc, cfg.PDFStoragePath)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc, cfg.UploadStoragePath)
	anamnesisH := handler.NewAnamnesisHandler(anamnesisSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, paymentSvc))

	// Auth (public)
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// PayPal webhook — authenticated by transmission signature, not JWT
	r.POST("/api/v1/payments/paypal/webhook", paymentsH.Webhook)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTrainer)
	admin := middleware.RequireRole(middleware.RoleAdmin)
	anyRole := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTrainer, middleware.RoleCustomer)

	v1 := r.Group("/api/v1", jwtMW)
	{
		v1.GET("/auth/me", anyRole, authH.Me)

		v1.GET("/dashboard", staff, dashboardH.Summary)

		// Customers — staff manage, customers read their own profile
		v1.GET("/customers/me", anyRole, customersH.Me)
		v1.GET("/customers", staff, customersH.List)
		v1.GET("/customers/:id", staff, customersH.Get)
		customers := v1.Group("/customers", admin)
		{
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
		}

		dogs := v1.Group("/dogs", anyRole)
		{
			dogs.POST("", dogsH.Create)
			dogs.GET("", dogsH.ListByCustomer)
			dogs.GET("/:id", dogsH.Get)
			dogs.PUT("/:id", dogsH.Update)
			dogs.DELETE("/:id", dogsH.Delete)
			dogs.POST("/:id/vaccinations", dogsH.AddVaccination)
			dogs.GET("/:id/vaccinations", dogsH.ListVaccinations)
			dogs.GET("/:id/training-logs", trainingH.ListByDog)
		}

		// Training logs — trainers document progress, customers read along
		v1.GET("/training-logs", anyRole, trainingH.ListLogs)
		v1.GET("/training-logs/:id", anyRole, trainingH.GetLog)
		trainingLogs := v1.Group("/training-logs", staff)
		{
			trainingLogs.POST("", trainingH.CreateLog)
			trainingLogs.PUT("/:id", trainingH.UpdateLog)
			trainingLogs.DELETE("/:id", trainingH.DeleteLog)
		}
		v1.GET("/training-attachments", anyRole, trainingH.ListAttachments)
		v1.GET("/training-attachments/:id", anyRole, trainingH.GetAttachment)
		v1.GET("/training-attachments/:id/download", anyRole, trainingH.DownloadAttachment)
		v1.POST("/training-attachments", staff, trainingH.UploadAttachment)
		v1.DELETE("/training-attachments/:id", staff, trainingH.DeleteAttachment)

		// Courses — everyone reads the catalogue, staff write
		v1.GET("/courses", anyRole, coursesH.List)
		v1.GET("/courses/:id", anyRole, coursesH.Get)
		v1.GET("/courses/:id/sessions", anyRole, coursesH.ListSessions)
		courses := v1.Group("/courses", staff)
		{
			courses.POST("", coursesH.Create)
			courses.PUT("/:id", coursesH.Update)
			courses.DELETE("/:id", coursesH.Deactivate)
			courses.POST("/:id/sessions", coursesH.CreateSession)
		}
		v1.POST("/sessions/:id/cancel", staff, coursesH.CancelSession)

		bookings := v1.Group("/bookings", anyRole)
		{
			bookings.POST("", bookingsH.Create)
			bookings.GET("", bookingsH.List)
			bookings.GET("/:id", bookingsH.Get)
			bookings.POST("/:id/cancel", bookingsH.Cancel)
		}

		// Credits — packages are admin territory, purchase/read is open
		v1.GET("/credits/packages", anyRole, creditsH.ListPackages)
		v1.POST("/credits/packages", admin, creditsH.CreatePackage)
		v1.DELETE("/credits/packages/:id", admin, creditsH.DeactivatePackage)
		v1.POST("/credits/purchase", anyRole, creditsH.Purchase)
		v1.GET("/credits", anyRole, creditsH.ListByCustomer)

		// Invoices — lifecycle writes are staff-only, customers read theirs
		v1.GET("/invoices", anyRole, invoicesH.List)
		v1.GET("/invoices/:id", anyRole, invoicesH.Get)
		v1.GET("/invoices/:id/pdf", anyRole, invoicesH.DownloadPDF)
		invoices := v1.Group("/invoices", staff)
		{
			invoices.POST("", invoicesH.Create)
			invoices.PUT("/:id", invoicesH.Update)
			invoices.DELETE("/:id", invoicesH.Delete)
			invoices.POST("/:id/issue", invoicesH.Issue)
			invoices.POST("/:id/payments", invoicesH.RecordPayment)
			invoices.POST("/:id/mark-paid", invoicesH.MarkAsPaid)
			invoices.POST("/:id/cancel", invoicesH.Cancel)
		}

		// Payments — customers trigger their own PayPal flow, the ledger
		// resource itself is staff territory
		v1.POST("/payments/paypal/create-order", anyRole, paymentsH.CreatePayPalOrder)
		v1.POST("/payments/paypal/capture-order", anyRole, paymentsH.CapturePayPalOrder)
		payments := v1.Group("/payments", staff)
		{
			payments.GET("", paymentsH.List)
			payments.POST("", paymentsH.Create)
			payments.GET("/:id", paymentsH.Get)
			payments.PUT("/:id", paymentsH.Update)
			payments.DELETE("/:id", paymentsH.Delete)
			payments.POST("/:id/mark-completed", paymentsH.MarkCompleted)
		}

		// Settings — admin only
		settings := v1.Group("/settings", admin)
		{
			settings.GET("", settingsH.List)
			settings.GET("/:key", settingsH.Get)
			settings.PUT("/:key", settingsH.Set)
		}

		anamnesis := v1.Group("/anamnesis", anyRole)
		{
			anamnesis.GET("/templates", anamnesisH.ListTemplates)
			anamnesis.GET("/templates/:id", anamnesisH.GetTemplate)
			anamnesis.POST("/templates", staff, anamnesisH.CreateTemplate)
			anamnesis.DELETE("/templates/:id", staff, anamnesisH.DeactivateTemplate)
			anamnesis.POST("/responses", anamnesisH.StartResponse)
			anamnesis.GET("/responses", anamnesisH.ListResponses)
			anamnesis.GET("/responses/:id", anamnesisH.GetResponse)
			anamnesis.POST("/responses/:id/answers", anamnesisH.SubmitAnswers)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
