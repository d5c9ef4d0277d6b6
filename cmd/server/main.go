package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"weddingshare/internal/cache"
	"weddingshare/internal/challenges"
	"weddingshare/internal/config"
	"weddingshare/internal/events"
	"weddingshare/internal/gallery"
	"weddingshare/internal/geo"
	"weddingshare/internal/handlers"
	"weddingshare/internal/hub"
	"weddingshare/internal/logger"
	"weddingshare/internal/media"
	"weddingshare/internal/metrics"
	"weddingshare/internal/middleware"
	"weddingshare/internal/models"
	"weddingshare/internal/notifications"
	"weddingshare/internal/playlist"
	"weddingshare/internal/presence"
	"weddingshare/internal/profiles"
	"weddingshare/internal/repository"
	"weddingshare/internal/sitestatus"
	"weddingshare/internal/social"
	"weddingshare/internal/storage"
	"weddingshare/internal/store"
	"weddingshare/internal/stories"
)

func main() {
	// load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(err)
	}
	dev := cfg.App.Env == "development"

	// logger
	log, _ := logger.New(dev)
	defer func() { _ = log.Sync() }()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Mongo
	mc, err := store.Connect(rootCtx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	db := mc.Database(cfg.Mongo.Database)

	mediaRepo := repository.NewMediaRepo(db, store.ColMedia)
	commentRepo := repository.NewCommentRepo(db, store.ColComments)
	likeRepo := repository.NewLikeRepo(db, store.ColLikes)
	storyRepo := repository.NewStoryRepo(db, store.ColStories)
	storyViewRepo := repository.NewStoryViewRepo(db, store.ColStoryViews)
	mediaTagRepo := repository.NewMediaTagRepo(db, store.ColMediaTags)
	locationTagRepo := repository.NewLocationTagRepo(db, store.ColLocationTags)
	notificationRepo := repository.NewNotificationRepo(db, store.ColNotifications)
	statusRepo := repository.NewSiteStatusRepo(db, store.ColSettings)
	profileRepo := repository.NewProfileRepo(db, store.ColUserProfiles)
	ownershipRepo := repository.NewSongOwnershipRepo(db, store.ColSongOwnerships)

	if err := likeRepo.EnsureIndexes(rootCtx); err != nil {
		log.Fatalf("like indexes: %v", err)
	}

	// S3
	blob, err := storage.NewS3Store(rootCtx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint, cfg.PresignTTL)
	if err != nil {
		log.Fatalf("s3 init: %v", err)
	}

	// Redis: presigned-URL cache plus presence
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	urlCache := cache.New(rdb, cfg.Redis.Prefix, time.Duration(cfg.Redis.SignedURLTTL)*time.Second)
	presenceStore := presence.NewStore(rdb, cfg.Redis.Prefix, time.Duration(cfg.Redis.PresenceTTL)*time.Second)

	// notification fan-out, over Kafka when brokers are configured
	var producer *events.Producer
	fanout := notifications.NewFanout(notificationRepo, nil, int64(cfg.Sync.NotificationCap), log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		fanout = notifications.NewFanout(notificationRepo, producer, int64(cfg.Sync.NotificationCap), log)
		consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, fanout.Deliver)
		go func() {
			if err := consumer.Start(rootCtx); err != nil && rootCtx.Err() == nil {
				log.Errorw("activity consumer stopped", "err", err)
			}
			_ = consumer.Close()
		}()
	}

	// websocket hub and the live feeds behind it
	wsHub := hub.New(log)
	emit := func(topic string) func(data any) {
		return func(data any) {
			wsHub.Publish(topic, data)
			metrics.SnapshotEmits.WithLabelValues(topic).Inc()
		}
	}

	fanout.OnDeliver(func(n *models.Notification) {
		wsHub.Publish("notifications:"+n.TargetUser+":"+n.TargetDeviceID, n)
	})

	galleryStore := gallery.NewStore(blob, urlCache, func(s gallery.Snapshot) { emit("gallery")(s) }, log)
	gallerySync := gallery.NewSync(rootCtx, galleryStore, mediaRepo, commentRepo, likeRepo, log)
	if err := gallerySync.Start(rootCtx); err != nil {
		log.Fatalf("gallery sync: %v", err)
	}

	statusCast, err := sitestatus.New(rootCtx, statusRepo, func(s *models.SiteStatus) { emit("siteStatus")(s) }, log)
	if err != nil {
		log.Fatalf("site status init: %v", err)
	}
	if err := statusCast.Start(rootCtx); err != nil {
		log.Fatalf("site status watch: %v", err)
	}

	profileSvc := profiles.New(profileRepo, func(ps []*models.UserProfile) { emit("profiles")(ps) }, log)
	if err := profileSvc.Start(rootCtx); err != nil {
		log.Fatalf("profile watch: %v", err)
	}
	go profileSvc.RunFreshnessPoll(rootCtx, cfg.ProfilePoll)

	// stories: service, expiry sweep, live feed
	storySvc := stories.NewService(storyRepo, storyViewRepo, blob, log)
	go storySvc.RunSweeper(rootCtx, cfg.StorySweep)
	storyWatch := store.NewWatcher(storyRepo.Collection(),
		func(ctx context.Context) ([]*models.Story, error) { return storyRepo.ListActive(ctx, time.Now().UTC()) },
		func(ss []*models.Story) { emit("stories")(ss) }, log)
	if err := storyWatch.Start(rootCtx); err != nil {
		log.Fatalf("story watch: %v", err)
	}

	// domain services
	mediaSvc := media.NewService(mediaRepo, blob, int64(cfg.Limits.MaxUploadMB)<<20, log,
		commentRepo, likeRepo, mediaTagRepo, locationTagRepo)
	socialSvc := social.NewService(mediaRepo, commentRepo, likeRepo, mediaTagRepo, locationTagRepo, fanout, log)

	spotify := playlist.NewSpotifyClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	playlistSvc := playlist.NewService(spotify, ownershipRepo, cfg.Spotify.PlaylistID, log)
	go playlistSvc.RunReconciler(rootCtx, cfg.OwnershipSweep)

	geoSvc := geo.NewService(cfg.Geo.PlacesURL, cfg.Geo.PlacesKey, cfg.Geo.GeocodeURL, cfg.Geo.RadiusMeters, log)

	challengeSvc, err := challenges.Open(cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres init: %v", err)
	}

	// fiber app and routes
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    (cfg.Limits.MaxUploadMB + 1) << 20,
	})
	h := handlers.New(handlers.Deps{
		Media:      mediaSvc,
		Social:     socialSvc,
		Stories:    storySvc,
		Gallery:    galleryStore,
		Fanout:     fanout,
		Status:     statusCast,
		Playlist:   playlistSvc,
		Geo:        geoSvc,
		Profiles:   profileSvc,
		Presence:   presenceStore,
		Challenges: challengeSvc,
		Hub:        wsHub,

		AdminPassword: cfg.Admin.Password,
		JWTSecret:     cfg.Admin.JWTSecret,
		AdminTokenTTL: int64(cfg.AdminTokenTTL.Seconds()),
		Log:           log,
	})
	limiter := middleware.NewIPRateLimiter(cfg.Limits.RequestsPerMin, log)
	handlers.Register(app, h, limiter, cfg.Admin.JWTSecret)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Infof("listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown requested")

	rootCancel()
	_ = app.Shutdown()

	gallerySync.Close()
	statusCast.Close()
	profileSvc.Close()
	storyWatch.Close()
	if producer != nil {
		_ = producer.Close()
	}
	_ = rdb.Close()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = mc.Disconnect(timeoutCtx)
	log.Info("shutdown completed")
}
