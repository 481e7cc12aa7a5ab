package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/kv"
	"storefront/internal/infra/mailer"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	"storefront/internal/middleware"
	"storefront/internal/pkg/logger"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	// .envが無くても環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("api", "info").Error("config load failed", err, nil)
		os.Exit(1)
	}
	log := logger.New("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Error("db connect failed", err, nil)
		os.Exit(1)
	}

	//Redis。つながらなければメモリで動かす
	var store kv.Store
	rs, err := kv.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory store", logger.Fields{"addr": cfg.RedisAddr, "error": err.Error()})
		store = kv.NewMemoryStore()
	} else {
		defer rs.Close()
		store = rs
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//外部
	tokens := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	var mail usecase.Mailer = mailer.NopMailer{}
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendGridMailer(cfg.SendgridAPIKey, cfg.MailFrom)
	}

	//Usecase生成
	resolver := usecase.NewRoleResolver(roleRepo, store, cfg.RoleCacheTTL, log)
	watchers := usecase.NewRoleWatchers(resolver)
	gate := usecase.NewAccessGate(cfg.SignInPath, cfg.FallbackPath)
	carts := usecase.NewCartSessions(store, log)

	authUC := usecase.NewAuthUsecase(userRepo, roleRepo, resolver,
		usecase.NewBcryptPasswordHasher(0), tokens, validator.NewAuthValidator(userRepo), log)
	productUC := usecase.NewProductUsecase(productRepo, shopRepo)
	cartUC := usecase.NewCartUsecase(carts, productRepo)
	themeUC := usecase.NewThemeUsecase(store, log)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo, log)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, carts, validator.NewCheckoutValidator(), mail, log)
	adminUC := usecase.NewAdminUsecase(userRepo, roleRepo, shopRepo, productRepo, orderRepo, auditRepo, resolver, log)
	ownerUC := usecase.NewShopOwnerUsecase(shopRepo, productRepo, orderRepo, auditRepo, log)

	//Handler生成
	e := server.New(log, middleware.NewCookieStore(cfg.SessionSecret, cfg.CookieSecure), tokens)
	server.RegisterRoutes(e, server.Handlers{
		Auth:      handler.NewAuthHandler(authUC, cfg.CookieSecure),
		Products:  handler.NewProductHandler(productUC),
		Cart:      handler.NewCartHandler(cartUC),
		Theme:     handler.NewThemeHandler(themeUC),
		Wishlist:  handler.NewWishlistHandler(wishlistUC),
		Orders:    handler.NewOrderHandler(orderUC),
		Admin:     handler.NewAdminHandler(adminUC),
		Dashboard: handler.NewDashboardHandler(ownerUC),
	}, gate, watchers)

	//使われていないセッションを定期的に捨てる
	go sweep(ctx, cfg.SessionIdle, log, func(idle time.Duration) int {
		return carts.Evict(idle) + watchers.Registry().Evict(idle) + wishlistUC.Evict(idle)
	})

	log.Info("server starting", logger.Fields{"addr": cfg.Addr(), "env": cfg.GoEnv})
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		log.Error("server stopped", err, nil)
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}

func sweep(ctx context.Context, idle time.Duration, log logger.Logger, evict func(time.Duration) int) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := evict(idle); n > 0 {
				log.Debug("evicted idle sessions", logger.Fields{"count": n})
			}
		}
	}
}
