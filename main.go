package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"classtrack_backend/internals/configs"
	database "classtrack_backend/internals/databases"
	assetcontroller "classtrack_backend/internals/features/assets/controller"
	classcontroller "classtrack_backend/internals/features/classes/controller"
	classservice "classtrack_backend/internals/features/classes/service"
	invoicecontroller "classtrack_backend/internals/features/invoices/controller"
	invoiceservice "classtrack_backend/internals/features/invoices/service"
	participantcontroller "classtrack_backend/internals/features/participants/controller"
	participantservice "classtrack_backend/internals/features/participants/service"
	sessioncontroller "classtrack_backend/internals/features/sessions/controller"
	sessionservice "classtrack_backend/internals/features/sessions/service"
	usercontroller "classtrack_backend/internals/features/users/controller"
	userservice "classtrack_backend/internals/features/users/service"
	"classtrack_backend/internals/helpers/oss"
	"classtrack_backend/internals/identity"
	middlewares "classtrack_backend/internals/middlewares"
	routes "classtrack_backend/internals/route"
	"classtrack_backend/internals/scheduler"
	"classtrack_backend/internals/store/gormstore"
)

func main() {
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app, cfg.CORSOrigins)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	database.TunePool(db)
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ossSvc, err := oss.NewService(oss.Config{
		Endpoint:   cfg.OSSEndpoint,
		AccessKey:  cfg.OSSAccessKey,
		SecretKey:  cfg.OSSSecretKey,
		Bucket:     cfg.OSSBucket,
		PublicBase: cfg.OSSPublicBase,
	})
	if err != nil {
		log.Fatalf("oss: %v", err)
	}

	st := gormstore.New(db)
	directory := identity.NewClerkDirectory(cfg.ClerkSecretKey)

	userMutators := userservice.NewUserMutators(st, directory)
	classMutators := classservice.NewClassMutators(st)
	participantMutators := participantservice.NewParticipantMutators(st)
	sessionMutators := sessionservice.NewSessionMutators(st)
	invoiceMutators := invoiceservice.NewInvoiceMutators(st, cfg.AssetFolder)
	reconciler := invoiceservice.NewReconciler(st, ossSvc, cfg.AssetFolder)

	routes.SetupRoutes(app, routes.Deps{
		DB:           db,
		Secret:       cfg.JWTSecret,
		Users:        usercontroller.NewUserController(st, userMutators),
		Classes:      classcontroller.NewClassController(st, classMutators),
		Participants: participantcontroller.NewParticipantController(st, participantMutators),
		Sessions:     sessioncontroller.NewSessionController(st, sessionMutators),
		Invoices:     invoicecontroller.NewInvoiceController(st, invoiceMutators, reconciler),
		Assets:       assetcontroller.NewAssetController(ossSvc, cfg.AssetFolder),
	})

	sched := scheduler.New(reconciler, cfg.ReconcileCron)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
