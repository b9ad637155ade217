package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm/internal/envutil"
	httpapi "crm/internal/http"
	"crm/internal/logger"
	"crm/internal/observability"
	"crm/internal/repository"
	"crm/internal/service"

	_ "crm/docs"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	shutdownTracing := observability.Init(context.Background(), log, observability.Config{
		ServiceName: "crm",
		Environment: envutil.String("ENVIRONMENT", "development"),
	})

	var (
		customersRepo repository.CustomerRepository
		productsRepo  repository.ProductRepository
		ordersRepo    repository.OrderRepository
		tx            repository.TxManager
	)
	if dsn := envutil.String("DATABASE_URL", ""); dsn != "" {
		store, err := repository.NewPostgresStore(dsn, log)
		if err != nil {
			log.Fatal("postgres init failed", "error", err)
		}
		customersRepo = repository.NewPostgresCustomers(store)
		productsRepo = repository.NewPostgresProducts(store)
		ordersRepo = repository.NewPostgresOrders(store)
		tx = repository.NewPostgresTx(store)
		log.Info("using postgres store")
	} else {
		store := repository.NewMemoryStore()
		customersRepo = repository.NewMemoryCustomers(store)
		productsRepo = store
		ordersRepo = repository.NewMemoryOrders(store)
		tx = repository.NewMemoryTx(store)
		log.Info("DATABASE_URL not set, using in-memory store")
	}

	customersSvc := service.NewCustomerService(customersRepo, log)
	productsSvc := service.NewProductService(productsRepo, tx, log)
	ordersSvc := service.NewOrderService(customersRepo, productsRepo, ordersRepo, tx, log)

	srv := httpapi.NewServer(customersSvc, productsSvc, ordersSvc)

	httpServer := &http.Server{
		Addr:    envutil.String("ADDR", ":9091"),
		Handler: srv.Engine(),
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("shutdown error", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn("tracing shutdown error", "error", err)
	}
}
