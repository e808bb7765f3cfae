package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mercadovecino/backend/internal/config"
	"github.com/mercadovecino/backend/internal/handler"
	appmw "github.com/mercadovecino/backend/internal/middleware"
	"github.com/mercadovecino/backend/internal/push"
	"github.com/mercadovecino/backend/internal/repository"
	"github.com/mercadovecino/backend/internal/service"
	"github.com/mercadovecino/backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e           *echo.Echo
	productRepo repository.ProductRepository
	contactRepo repository.ContactRepository
	reviewRepo  repository.ReviewRepository
	notifRepo   repository.NotificationRepository
	tokenRepo   repository.PushTokenRepository
	annRepo     repository.AnnouncementRepository
	sha         string
	build       string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			host := u.Hostname()
			if strings.HasSuffix(host, "mercadovecino.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	var sender push.Sender
	if s, err := push.NewFCMSender(context.Background()); err != nil {
		log.Printf("push sender disabled: %v", err)
	} else {
		sender = s
	}

	productRepo := repository.NewProductRepository(db)
	contactRepo := repository.NewContactRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)
	annRepo := repository.NewAnnouncementRepository(db)

	notifSvc := service.NewNotificationService(notifRepo, tokenRepo, annRepo, sender)
	productSvc := service.NewProductService(productRepo)
	contactSvc := service.NewContactService(contactRepo, productRepo, notifSvc)
	reviewSvc := service.NewReviewService(reviewRepo, contactRepo, productRepo, notifSvc)

	productHandler := handler.NewProductHandler(productSvc)
	contactHandler := handler.NewContactHandler(contactSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	var uploadHandler *handler.UploadHandler
	if cfg != nil && cfg.StorageBucket != "" {
		uploader, err := storage.NewUploader(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Printf("uploads disabled: %v", err)
		} else {
			uploadHandler = handler.NewUploadHandler(uploader)
		}
	}

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		log.Printf("firebase auth disabled: %v", err)
		authMw = nil
	}
	var userHandler *handler.UserHandler
	if authMw != nil && authMw.Client() != nil {
		userHandler = handler.NewUserHandler(authMw.Client())
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	if authMw != nil {
		api.POST("/products", productHandler.Create, authMw.RequireAuth)
		api.PUT("/products/:id", productHandler.Update, authMw.RequireAuth)
		api.GET("/me/products", productHandler.ListMine, authMw.RequireAuth)
		api.POST("/products/:id/contact", contactHandler.ContactSeller, authMw.RequireAuth)
		api.GET("/products/:id/contact", contactHandler.GetByProduct, authMw.RequireAuth)
		api.GET("/me/contacts", contactHandler.ListMine, authMw.RequireAuth)
		api.GET("/me/sales", contactHandler.ListSales, authMw.RequireAuth)
		api.POST("/contacts/:id/status", contactHandler.UpdateStatus, authMw.RequireAuth)
		api.GET("/products/:id/reviews/eligibility", reviewHandler.Eligibility, authMw.RequireAuth)
		api.POST("/products/:id/reviews", reviewHandler.Submit, authMw.RequireAuth)
		api.GET("/me/notifications", notifHandler.List, authMw.RequireAuth)
		api.POST("/me/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)
		api.POST("/me/push-tokens", notifHandler.RegisterPushToken, authMw.RequireAuth)
		api.POST("/admin/announcements", notifHandler.CreateAnnouncement, authMw.RequireAuth, authMw.RequireAdmin)
		if uploadHandler != nil {
			api.POST("/uploads/images", uploadHandler.UploadImage, authMw.RequireAuth)
		}
	} else {
		api.POST("/products", productHandler.Create)
		api.PUT("/products/:id", productHandler.Update)
		api.GET("/me/products", productHandler.ListMine)
		api.POST("/products/:id/contact", contactHandler.ContactSeller)
		api.GET("/products/:id/contact", contactHandler.GetByProduct)
		api.GET("/me/contacts", contactHandler.ListMine)
		api.GET("/me/sales", contactHandler.ListSales)
		api.POST("/contacts/:id/status", contactHandler.UpdateStatus)
		api.GET("/products/:id/reviews/eligibility", reviewHandler.Eligibility)
		api.POST("/products/:id/reviews", reviewHandler.Submit)
		api.GET("/me/notifications", notifHandler.List)
		api.POST("/me/notifications/read", notifHandler.MarkAllRead)
		api.POST("/me/push-tokens", notifHandler.RegisterPushToken)
		api.POST("/admin/announcements", notifHandler.CreateAnnouncement)
		if uploadHandler != nil {
			api.POST("/uploads/images", uploadHandler.UploadImage)
		}
	}
	api.GET("/categories", productHandler.ListCategories)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	api.GET("/announcements", notifHandler.ListAnnouncements)
	if userHandler != nil {
		api.GET("/users/:uid/public", userHandler.GetPublic)
	}

	return &Server{
		e:           e,
		productRepo: productRepo,
		contactRepo: contactRepo,
		reviewRepo:  reviewRepo,
		notifRepo:   notifRepo,
		tokenRepo:   tokenRepo,
		annRepo:     annRepo,
		sha:         sha,
		build:       buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	s.productRepo.SetDB(db)
	s.contactRepo.SetDB(db)
	s.reviewRepo.SetDB(db)
	s.notifRepo.SetDB(db)
	s.tokenRepo.SetDB(db)
	s.annRepo.SetDB(db)
}
