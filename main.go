package main

import (
	"context"
	"net/http"
	"time"

	"Projease/data/mongoutil"
	"Projease/global"
	"Projease/logger"
	"Projease/middleware"
	midsec "Projease/middleware/security"
	chatrest "Projease/module/chat"
	chatstore "Projease/module/chat/store"
	"Projease/module/project"
	"Projease/module/project/gate"
	projstore "Projease/module/project/store"
	"Projease/service/chat"
	"Projease/service/chat/handlers"
	"Projease/service/storage"
	sec "Projease/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := global.Load()
	if err != nil {
		logger.Errorf("load config: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	mongoCli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		MaxPoolSize: cfg.MongoPoolSize,
		MaxRetry:    cfg.MongoMaxRetry,
	})
	cancel()
	if err != nil {
		logger.Errorf("connect mongo: %v", err)
		return
	}
	db := mongoCli.GetDB()
	logger.Infof("connected to MongoDB db=%s", cfg.MongoDatabase)

	messageStore := chatstore.NewMessageStore(db)
	unseenStore := chatstore.NewUnseenStore(db)
	projectStore := projstore.NewProjectStore(db)
	userStore := projstore.NewUserStore(db)

	// Presence mirror is optional: no redis configured, no mirror.
	var mirror chat.PresenceMirror
	var presenceLookup chatrest.PresenceLookup
	if cfg.RedisAddr != "" {
		pm, rerr := storage.NewPresenceManager(storage.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.PresenceTTL,
		})
		if rerr != nil {
			logger.Warnf("presence mirror disabled: %v", rerr)
		} else {
			mirror = pm
			presenceLookup = pm
			defer pm.Close()
		}
	}

	srv := chat.NewServer(messageStore, unseenStore, mirror, chat.Options{
		SendQueueSize: cfg.SendQueueSize,
		FanoutWorkers: cfg.FanoutWorkers,
		FanoutQueue:   cfg.FanoutQueue,
	})
	srv.Disp().Register(handlers.NewRegisterHandler())
	srv.Disp().Register(handlers.NewJoinGroupHandler())
	srv.Disp().Register(handlers.NewGroupMessageHandler())
	srv.Disp().Register(handlers.NewDeleteMessageHandler())

	joinGate := gate.New(projectStore, userStore, gate.Options{
		MaxAttempts: cfg.LockoutMaxAttempts,
		Window:      cfg.LockoutWindow,
	})

	jwtOpts := sec.Options{Secret: global.GetJwtSecret(), Alg: "HS256", TTL: cfg.JwtTTL}
	authOpt := middleware.RouteOpt{IsAuth: true, Auth: midsec.DefaultOptions(jwtOpts)}
	openOpt := middleware.RouteOpt{}

	chatHandler := chatrest.NewHandler(messageStore, unseenStore, srv.Registry(), presenceLookup)
	projectHandler := project.NewHandler(joinGate)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to Projease")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "online": srv.Registry().OnlineCount()})
	})

	r.GET("/ws", srv.HandleWS)

	middleware.POST(r, "/join-project", projectHandler.HandleJoinProject, authOpt)
	middleware.GET(r, "/unseenMessageCount/:projectId/:userId", chatHandler.HandleUnseenCount, authOpt)
	middleware.POST(r, "/unseenMessageCount/:projectId/:userId/reset", chatHandler.HandleResetUnseen, authOpt)
	middleware.GET(r, "/chat-group/:projectId", chatHandler.HandleGetChatGroup, authOpt)
	middleware.POST(r, "/chat-group", chatHandler.HandleCreateChatGroup, authOpt)
	middleware.GET(r, "/messages/:groupId", chatHandler.HandleListMessages, authOpt)
	middleware.GET(r, "/presence/:userId", chatHandler.HandlePresence, openOpt)

	logger.Infof("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Errorf("server exited: %v", err)
	}
}
