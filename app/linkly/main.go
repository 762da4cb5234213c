package main

import (
	"context"
	"encoding/json"
	"net/http"
	"syscall"
	"time"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	authHTTPRepo "github.com/yorklin/linkly/auth/repository/http"
	httpKit "github.com/yorklin/linkly/kit/http"
	httpMiddlewareKit "github.com/yorklin/linkly/kit/http/middleware"
	loggerKit "github.com/yorklin/linkly/kit/logger"
	ormKit "github.com/yorklin/linkly/kit/orm"
	redisKit "github.com/yorklin/linkly/kit/redis"
	traceKit "github.com/yorklin/linkly/kit/trace"
	utilKit "github.com/yorklin/linkly/kit/util"
	deliveryHTTP "github.com/yorklin/linkly/link/delivery/http"
	mysqlRepo "github.com/yorklin/linkly/link/repository/mysql"
	redisRepo "github.com/yorklin/linkly/link/repository/redis"
	"github.com/yorklin/linkly/link/usecase"
)

const (
	SYSTEM_NAME  = "system"
	SERVICE_NAME = "linkly"
)

func main() {
	_ = godotenv.Load()

	var (
		serviceAddr   = utilKit.GetEnvString("LINKLY_ADDR", ":9091")
		mysqlDSN      = utilKit.GetEnvString("MYSQL_DSN", "root:password@tcp(127.0.0.1:3306)/db?charset=utf8mb4&parseTime=True&loc=Local")
		redisAddr     = utilKit.GetEnvString("REDIS_ADDR", "localhost:6379")
		redisPassword = utilKit.GetEnvString("REDIS_PASSWORD", "")
		redisDB       = utilKit.GetEnvInt("REDIS_DB", 0)
		publicURL     = utilKit.GetEnvString("PUBLIC_URL", "http://localhost:9091")
		authURL       = utilKit.GetEnvString("AUTH_URL", "http://localhost:9093")
		cacheTTL      = utilKit.GetEnvDurationSeconds("DEFAULT_CACHE_TTL_SECONDS", time.Hour)
		enableTracer  = utilKit.GetEnvBool("ENABLE_TRACER", false)
		enableMetric  = utilKit.GetEnvBool("ENABLE_METRIC", false)
		env           = utilKit.GetEnvString("ENV", "development")
	)

	logLevel := loggerKit.InfoLevel
	if env == "development" {
		logLevel = loggerKit.DebugLevel
	}
	logger, err := loggerKit.NewLogger("./go.log", logLevel)
	if err != nil {
		panic(err)
	}

	singletonDB, err := ormKit.CreateDB(ormKit.UseMySQL(mysqlDSN))
	if err != nil {
		panic(err)
	}
	singletonCache, err := redisKit.CreateCache(redisAddr, redisPassword, redisDB)
	if err != nil {
		panic(err)
	}

	var tracer trace.Tracer
	if enableTracer {
		tracer, err = traceKit.CreateTracer(context.Background(), SERVICE_NAME)
		if err != nil {
			panic(err)
		}
	} else {
		tracer = traceKit.CreateNoOpTracer()
	}

	linkRepo := mysqlRepo.CreateLinkRepo(singletonDB)
	linkCache := redisRepo.CreateLinkCache(singletonCache)
	authService := authHTTPRepo.CreateAuthClient(authURL)

	linkLifecycle, err := usecase.CreateLinkLifecycle(linkRepo, linkCache, logger, cacheTTL)
	if err != nil {
		panic(err)
	}
	linkResolver, err := usecase.CreateLinkResolver(linkRepo, linkCache, logger, cacheTTL)
	if err != nil {
		panic(err)
	}

	rateLimit := utilKit.CreateCacheRateLimit(singletonCache, 30, 10)

	customMiddleware := endpoint.Chain(
		httpMiddlewareKit.CreateLoggingMiddleware(logger),
		httpMiddlewareKit.CreateRateLimitMiddlewareWithSpecKey(true, true, false, rateLimit.Pass),
		httpMiddlewareKit.CreateMetrics(SYSTEM_NAME, SERVICE_NAME),
	)
	authMiddleware := httpMiddlewareKit.CreateAuthMiddleware(authService.Verify)
	optionalAuthMiddleware := httpMiddlewareKit.CreateOptionalAuthMiddleware(authService.Verify)

	options := []httptransport.ServerOption{
		httptransport.ServerBefore(httpKit.CustomBeforeCtx(tracer)),
		httptransport.ServerAfter(httpKit.CustomAfterCtx),
		httptransport.ServerErrorEncoder(httpKit.EncodeHTTPErrorResponse()),
	}

	r := mux.NewRouter()
	r.Methods("POST").Path("/api/v1/shorten").Handler(
		httptransport.NewServer(
			customMiddleware(optionalAuthMiddleware(deliveryHTTP.MakeLinkShortenEndpoint(linkLifecycle, publicURL))),
			deliveryHTTP.DecodeLinkShortenRequest,
			deliveryHTTP.EncodeLinkShortenResponse,
			options...,
		))
	r.Methods("GET").Path("/api/v1/links").Handler(
		httptransport.NewServer(
			customMiddleware(optionalAuthMiddleware(deliveryHTTP.MakeLinkListEndpoint(linkLifecycle, publicURL))),
			deliveryHTTP.DecodeLinkListRequest,
			deliveryHTTP.EncodeLinkListResponse,
			options...,
		))
	r.Methods("PATCH").Path("/api/v1/links/{shortCode}/status").Handler(
		httptransport.NewServer(
			customMiddleware(authMiddleware(deliveryHTTP.MakeLinkStatusUpdateEndpoint(linkLifecycle, publicURL))),
			deliveryHTTP.DecodeLinkStatusUpdateRequest,
			deliveryHTTP.EncodeLinkStatusUpdateResponse,
			options...,
		))
	r.Methods("DELETE").Path("/api/v1/links/{shortCode}").Handler(
		httptransport.NewServer(
			customMiddleware(authMiddleware(deliveryHTTP.MakeLinkDeleteEndpoint(linkLifecycle))),
			deliveryHTTP.DecodeLinkDeleteRequest,
			deliveryHTTP.EncodeLinkDeleteResponse,
			options...,
		))
	r.Methods("GET").Path("/api/v1/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if enableMetric {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Methods("GET").Path("/{shortCode}").Handler(
		httptransport.NewServer(
			customMiddleware(deliveryHTTP.MakeLinkRedirectEndpoint(linkResolver)),
			deliveryHTTP.DecodeLinkRedirectRequest,
			deliveryHTTP.EncodeLinkRedirectResponse,
			options...,
		))

	httpSrv := http.Server{
		Addr:    serviceAddr,
		Handler: r,
	}

	g := new(run.Group)
	g.Add(func() error {
		return httpSrv.ListenAndServe()
	}, func(err error) {
		if err != nil {
			logger.Error(err.Error())
		}
		httpSrv.Close()
	})
	g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))
	if err := g.Run(); err != nil {
		logger.Error(err.Error())
	}
}
