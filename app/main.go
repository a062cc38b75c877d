package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/dealhive/dealhive/internal/repository"
	mysqlRepo "github.com/dealhive/dealhive/internal/repository/mysql"
	myRedisCache "github.com/dealhive/dealhive/internal/repository/redis"
	"github.com/dealhive/dealhive/internal/session"
	"github.com/dealhive/dealhive/internal/workers"

	"github.com/dealhive/dealhive/internal/rest"
	"github.com/dealhive/dealhive/internal/rest/middleware"
	"github.com/dealhive/dealhive/internal/rest/request"
	"github.com/dealhive/dealhive/internal/usecase/comment"
	"github.com/dealhive/dealhive/internal/usecase/deal"
	"github.com/dealhive/dealhive/internal/usecase/report"
	"github.com/joho/godotenv"
)

const (
	defaultTimeout        = 30
	defaultAddress        = ":9090"
	defaultCacheDB        = 0
	defaultBloomBitSize   = 10000000
	defaultSessionTTLMins = 30
	dbMaxRetry            = 10
	dbRetryIntervalSec    = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))
	request.RegisterValidations()

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	reportRepo := mysqlRepo.NewReportRepository(db)

	// Deal相关的三层架构
	// 1. DB层
	dealDBRepo := mysqlRepo.NewDealRepository(db)
	// 2. Cache层
	dealCache := myRedisCache.NewDealCache(client)
	// 3. Repository协调层
	dealRepo := repository.NewDealRepository(dealDBRepo, dealCache, userRepo, commentRepo)

	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Printf("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, bloomBitSize)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	heat_syncer := workers.NewHeatSyncWorker(dealRepo, dealCache)
	go heat_syncer.Start(ctx)

	// Build service Layer
	// usecase层只依赖repository接口和cache（用于热度等特殊操作）
	dealSvc := deal.NewService(dealRepo, dealCache, bloomRepo)
	commentSvc := comment.NewService(commentRepo, bloomRepo, dealCache)
	reportSvc := report.NewService(reportRepo, commentRepo, bloomRepo)

	// Comment sessions live in memory, one per viewer per deal
	sessionTTLStr := os.Getenv("SESSION_TTL_MINUTES")
	sessionTTL, err := strconv.Atoi(sessionTTLStr)
	if err != nil {
		log.Println("failed to parse session TTL, using default 30 minutes")
		sessionTTL = defaultSessionTTLMins
	}
	registry := session.NewRegistry(commentSvc, time.Duration(sessionTTL)*time.Minute)
	go registry.Start(ctx)

	dealHandler := rest.NewDealHandler(dealSvc, registry)
	commentHandler := rest.NewCommentHandler(registry, dealSvc, commentSvc)
	reportHandler := rest.NewReportHandler(reportSvc)

	jwtSecret := os.Getenv("JWT_SECRET")
	authMiddleware := middleware.AuthMiddleware(jwtSecret, userRepo)

	// Prepare bloom filter
	if err := dealSvc.InitBloomFilter(ctx); err != nil {
		log.Printf("failed to init bloom filter: %v\n", err)
		return
	}

	// Register routes
	route.GET("/deals", dealHandler.FetchDeals)
	route.GET("/deals/:id", dealHandler.GetByID)

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.POST("/deals/:id/vote", dealHandler.Vote)
		authorized.POST("/deals/:id/comments", commentHandler.CreateComment)
		authorized.PUT("/deals/:id/comments/:cid", commentHandler.UpdateComment)
		authorized.DELETE("/deals/:id/comments/:cid", commentHandler.DeleteComment)
		authorized.POST("/deals/:id/report", reportHandler.ReportDeal)
		authorized.POST("/comments/:id/report", reportHandler.ReportComment)
	}

	admin := route.Group("/")
	admin.Use(authMiddleware, middleware.AdminOnly())
	{
		admin.PATCH("/comments/:id/moderation", commentHandler.ModerateComment)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
