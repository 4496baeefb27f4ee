package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vallemarketing/valle360-social/domain/model"
	"github.com/vallemarketing/valle360-social/domain/repository"
	"github.com/vallemarketing/valle360-social/infrastructure/cache"
	"github.com/vallemarketing/valle360-social/infrastructure/clients/googleauth"
	"github.com/vallemarketing/valle360-social/infrastructure/clients/linkedinapi"
	"github.com/vallemarketing/valle360-social/infrastructure/clients/metagraph"
	"github.com/vallemarketing/valle360-social/infrastructure/configuration"
	"github.com/vallemarketing/valle360-social/infrastructure/logger"
	"github.com/vallemarketing/valle360-social/infrastructure/oauthstate"
	"github.com/vallemarketing/valle360-social/infrastructure/persistence"
	httpHandler "github.com/vallemarketing/valle360-social/interfaces/http"
	"github.com/vallemarketing/valle360-social/server"
	"github.com/vallemarketing/valle360-social/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSocialSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring social schema")
		os.Exit(1)
	}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available; OAuth state replay guard degraded to signed expiry only")
		redisClient = nil
	}

	accountRepo := persistence.NewConnectedAccountRepository(psqlDb)
	secretRepo := persistence.NewAccountSecretRepository(psqlDb)
	logRepo := persistence.NewPublishLogRepository(psqlDb)
	scheduledRepo := persistence.NewScheduledPostRepository(psqlDb)

	// Meta providers share the Graph client shape but carry separate app
	// credentials.
	facebookClient := metagraph.NewClient(metagraph.Config{
		ClientID:     configuration.C.OAuth.Facebook.ClientID,
		ClientSecret: configuration.C.OAuth.Facebook.ClientSecret,
		RedirectURI:  configuration.C.OAuth.Facebook.RedirectURI,
	})
	instagramClient := metagraph.NewClient(metagraph.Config{
		ClientID:     configuration.C.OAuth.Instagram.ClientID,
		ClientSecret: configuration.C.OAuth.Instagram.ClientSecret,
		RedirectURI:  configuration.C.OAuth.Instagram.RedirectURI,
	})
	linkedinClient := linkedinapi.NewClient(linkedinapi.Config{
		ClientID:     configuration.C.OAuth.LinkedIn.ClientID,
		ClientSecret: configuration.C.OAuth.LinkedIn.ClientSecret,
		RedirectURI:  configuration.C.OAuth.LinkedIn.RedirectURI,
	})

	exchangers := map[model.Platform]repository.IExchanger{
		model.PlatformFacebook:  metagraph.NewFacebookExchanger(facebookClient),
		model.PlatformInstagram: metagraph.NewInstagramExchanger(instagramClient),
		model.PlatformLinkedIn:  linkedinapi.NewExchanger(linkedinClient),
		model.PlatformGoogle: googleauth.NewExchanger(googleauth.Config{
			ClientID:     configuration.C.OAuth.Google.ClientID,
			ClientSecret: configuration.C.OAuth.Google.ClientSecret,
			RedirectURI:  configuration.C.OAuth.Google.RedirectURI,
		}),
	}

	// The adapter matrix: everything outside it resolves to the unsupported
	// fallback inside the orchestrator.
	adapters := map[model.AdapterKey]repository.IPublisher{
		{Platform: model.PlatformFacebook, PostType: model.PostTypeText}:      metagraph.NewFacebookTextPublisher(facebookClient),
		{Platform: model.PlatformFacebook, PostType: model.PostTypeImage}:     metagraph.NewFacebookImagePublisher(facebookClient),
		{Platform: model.PlatformFacebook, PostType: model.PostTypeVideo}:     metagraph.NewFacebookVideoPublisher(facebookClient),
		{Platform: model.PlatformFacebook, PostType: model.PostTypeCarousel}:  metagraph.NewFacebookCarouselPublisher(facebookClient),
		{Platform: model.PlatformInstagram, PostType: model.PostTypeImage}:    metagraph.NewInstagramImagePublisher(instagramClient),
		{Platform: model.PlatformInstagram, PostType: model.PostTypeVideo}:    metagraph.NewInstagramVideoPublisher(instagramClient),
		{Platform: model.PlatformInstagram, PostType: model.PostTypeCarousel}: metagraph.NewInstagramCarouselPublisher(instagramClient),
	}

	signer := oauthstate.NewSigner(app.SecretKey)
	nonces := cache.NewStateNonceCache(redisClient)

	connectUsecase := usecase.NewConnectUsecase(exchangers, accountRepo, secretRepo, signer, nonces)
	accountUsecase := usecase.NewAccountUsecase(accountRepo, secretRepo)
	publishUsecase := usecase.NewPublishUsecase(adapters, accountUsecase, logRepo, scheduledRepo, usecase.PublishOptions{
		WorkerLimit:     configuration.C.Publish.WorkerLimit,
		ProviderTimeout: time.Duration(configuration.C.Publish.ProviderTimeoutSeconds) * time.Second,
	})

	oauthHandler := httpHandler.NewOAuthHandler(connectUsecase, configuration.C.OAuth.ReturnURL)
	accountHandler := httpHandler.NewAccountHandler(accountUsecase)
	publishHandler := httpHandler.NewPublishHandler(publishUsecase)
	healthHandler := httpHandler.NewHealthHandler(psqlDb)

	router := server.InitiateRouter(oauthHandler, accountHandler, publishHandler, healthHandler, app.SecretKey)

	// Background processor for scheduled posts (simple ticker loop)
	if interval := configuration.C.Publish.SchedulerIntervalSeconds; interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(time.Duration(interval) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					procCtx, cancelProc := context.WithTimeout(ctx, 2*time.Minute)
					if _, err := publishUsecase.ProcessDue(procCtx, 10); err != nil {
						logger.GetLogger().WithField("error", err).Warn("Scheduled post sweep failed")
					}
					cancelProc()
				}
			}
		})
	}

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
			logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
