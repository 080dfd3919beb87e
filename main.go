package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicd-directory/pkg/config"
	"aicd-directory/pkg/handlers"
	"aicd-directory/pkg/logger"
	"aicd-directory/pkg/services"
	"aicd-directory/pkg/storage"
)

func main() {
	// Initialize config
	config.Init()

	log := logger.New(config.LogLevel, config.LogFormat)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Content store: MongoDB when a URI is configured, flat JSON file
	// otherwise.
	var store storage.Store
	if config.MongoURI != "" {
		store = storage.NewMongoStore(config.MongoURI, config.MongoDatabase, log)
		log.Info("using mongodb store", zap.String("database", config.MongoDatabase))
	} else {
		store = storage.NewFileStore(config.DataDir, log)
		log.Info("using file store", zap.String("dir", config.DataDir))
	}

	notifier := services.NewNotifier(log)
	go notifier.Run(ctx, time.Minute)

	r := gin.Default()

	// Session Setup
	cookieStore := cookie.NewStore([]byte(config.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	r.Use(sessions.Sessions("admin_session", cookieStore))
	r.Use(handlers.RequestID())

	// Uploaded logos are served from a public static path
	r.Static("/uploads", config.UploadDir)

	srv := handlers.New(store, notifier, log)
	srv.Register(r)

	httpServer := &http.Server{Addr: config.Addr, Handler: r}
	go func() {
		log.Info("listening", zap.String("addr", config.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Warn("store close failed", zap.Error(err))
	}
}
