package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/loaai-rashad/scentorini-shop/configs"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/cache"
	shophttp "github.com/loaai-rashad/scentorini-shop/internal/adapter/http"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/http/middleware"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/kafka"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/notify"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/outbox"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/queue"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/repo"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/pricing"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, "./logs/app.log")
	log := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	log.Info("starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	// repos
	inventoryRepo := repo.NewMySQLInventoryRepo(db)
	orderRepo := repo.NewMySQLOrderRepo(db)
	promoRepo := repo.NewMySQLPromoRepo(db)
	reviewRepo := repo.NewMySQLReviewRepo(db)
	sectionRepo := repo.NewMySQLSectionRepo(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)

	// redis-backed stores
	cartStorage := cache.NewRedisCartStorage(rdb, cfg.Cart.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)

	// rabbitmq producer + outbox dispatcher
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}
	appCtx, stopBackground := context.WithCancel(context.Background())
	dispatcher := outbox.NewDispatcher(outboxRepo, producer, cfg.Outbox.Interval, cfg.Outbox.BatchSize, logging.New("outbox"))
	go dispatcher.Start(appCtx)

	// order.placed consumers: analytics + confirmation email
	setupQueue(cfg, ch)

	// fulfillment status feed
	if err := setupKafkaListener(appCtx, cfg, orderRepo, statusCache); err != nil {
		stopBackground()
		return nil, nil, err
	}

	// use cases + handlers
	pricer := pricing.NewCalculator(decimal.NewFromFloat(cfg.Shop.ShippingFee), cfg.Shop.FreeShippingRegion)
	checkout := usecase.NewCheckout(cartStorage, inventoryRepo, orderRepo, promoRepo, outboxRepo, idem, pricer, cfg.Shop.Currency)

	handlers := shophttp.Handlers{
		Login:       shophttp.NewLoginHandler(cfg),
		Catalog:     shophttp.NewCatalogHandler(inventoryRepo, sectionRepo),
		Cart:        shophttp.NewCartHandler(cartStorage, inventoryRepo),
		Discovery:   shophttp.NewDiscoveryHandler(inventoryRepo, cartStorage, cfg.Shop.DiscoveryMin, cfg.Shop.DiscoverySetTitle),
		Promo:       shophttp.NewPromoHandler(promoRepo),
		Review:      shophttp.NewReviewHandler(reviewRepo, inventoryRepo),
		Checkout:    shophttp.NewCheckoutHandler(checkout),
		OrderStatus: shophttp.NewOrderStatusHandler(orderRepo, statusCache),
		Admin:       shophttp.NewAdminHandler(inventoryRepo, orderRepo, promoRepo, sectionRepo, reviewRepo, statusCache),
	}
	authz := middleware.NewAuthz(cfg)
	router := shophttp.NewRouter(handlers, authz)

	cleanup := func() {
		stopBackground()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(cfg configs.Config, ch *amqp091.Channel) {
	analytics := notify.NewAnalyticsClient(cfg.Analytics.Endpoint, cfg.Analytics.MeasurementID, cfg.Analytics.APISecret)
	email := notify.NewEmailClient(cfg.Email.Endpoint, cfg.Email.ServiceID, cfg.Email.TemplateID, cfg.Email.UserID)
	h := queue.NewOrderPlacedHandler(analytics, email, logging.New("notify"))

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.QueueOrderPlaced, queue.JSONHandler[usecase.OrderPlacedMsg]{HandleFunc: h.HandlePlaced})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, orders *repo.MySQLOrderRepo, statusCache *cache.RedisCache) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return err
	}

	h := kafka.NewOrderStatusChangedHandler(orders, statusCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TopicStatus}, h.Handle, logging.New("kafka"))

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("kafka").Error("consumer stopped", "error", err)
		}
	}()
	return nil
}
