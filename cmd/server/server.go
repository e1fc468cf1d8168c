package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/egyjs/order-management-backend-app/internal/eventengine"
	"github.com/egyjs/order-management-backend-app/internal/features/alert"
	"github.com/egyjs/order-management-backend-app/internal/features/ingredient"
	"github.com/egyjs/order-management-backend-app/internal/features/order"
	"github.com/egyjs/order-management-backend-app/internal/features/product"
	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"golang.org/x/sync/errgroup"
)

type ServerConfig struct {
	Addr            string
	DB              *sql.DB
	KafkaBrokerAddr string
	StockAlertTopic string
}

type server struct {
	*ServerConfig

	doneCh        chan struct{}   // used to signal internal go routines to shutdown
	internalSrvWG *sync.WaitGroup // used to wait for all internal go routines within individual routes to finish before shutting down the server.

	eventEngine eventengine.SubscribeRegisterPublisher
	alertSinks  []alert.Sink
	srv         *http.Server
}

func NewServer(serverConfig *ServerConfig) *server {
	srv := &server{
		ServerConfig:  serverConfig,
		doneCh:        make(chan struct{}),
		internalSrvWG: &sync.WaitGroup{},
	}

	return srv
}

func (s *server) Run() {
	router := chi.NewRouter()

	// strip trailing slashes at the end of the url
	// e.g. /orders/1/ -> /orders/1
	// this middleware should be applied to all routes
	// to ensure that the url is correctly formatted
	router.Use(chimiddleware.StripSlashes)

	s.prep()

	router.Mount("/api/v1", s.v1Router()) // api version 1 subrouter

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.Addr),
		Handler: router,
	}

	// start server and listen for [os.Signal] signals to graceful shutdown server.
	s.listenAndServe()
}

func (s *server) listenAndServe() {
	shutdownCtx, shutdownCancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer shutdownCancel()

	errGrp, shutdownCtx := errgroup.WithContext(shutdownCtx)

	errGrp.Go(
		func() error {
			log.Printf("server started and is listening at port %s...\n", s.Addr)

			if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}

			return nil
		},
	)

	errGrp.Go(
		func() error {
			<-shutdownCtx.Done() // block and listen shutdown signals
			println()
			log.Println("hold and wait, server is gracefully shutting down...")

			ctx, cancel := context.WithTimeout(
				context.Background(),
				(20 * time.Second),
			)
			defer cancel()

			log.Println("server has stopped receiving new requests")
			log.Println("waiting for all pending requests to finish....")
			if err := s.srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server failed shutdown gracefully: %w", err)
			}

			return nil
		},
	)

	if err := errGrp.Wait(); err != nil {
		log.Fatal(err.Error())
	}
	log.Println("all pending requests completed!")

	log.Println("waiting for all internal pending go routines....")
	close(s.doneCh)
	s.internalSrvWG.Wait()
	log.Println("all internal go routines are done")

	log.Println("closing other resources...")
	for _, sink := range s.alertSinks {
		closer, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			log.Println("server failed to close an alert sink for shutdown")
		}
	}
	if err := s.DB.Close(); err != nil {
		log.Println("server failed to close db for shutdown")
	}

	log.Println("server has been gracefully shutdown")
	os.Exit(0)
}

// prep prepares server dependencies needed for server to function
func (s *server) prep() {
	s.eventEngine = eventengine.NewEventEngine(
		&eventengine.EventEngineConfig{
			DoneCh:        s.doneCh,
			InternalSrvWG: s.internalSrvWG,
		},
	)
}

func (s *server) v1Router() *chi.Mux {
	r := chi.NewRouter()

	// health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Println("health check")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// ingredient feature owns stock levels and the low stock decision
	ingredientStore := ingredient.NewStore(s.DB)
	ingredientService := ingredient.NewService(
		ingredientStore,
		s.eventEngine,
	)
	ingredientHandler := ingredient.NewHandler(ingredientService)
	ingredientHandler.RegisterRoutes(r)

	// product feature is the read-only catalog
	productStore := product.NewStore(s.DB)
	productService := product.NewService(productStore)
	productHandler := product.NewHandler(productService)
	productHandler.RegisterRoutes(r)

	// order feature coordinates the order transaction across the catalog
	// and the stock ledger
	orderStore := order.NewStore(s.DB)
	orderService := order.NewService(
		orderStore,
		productService,
		ingredientService,
	)
	orderHandler := order.NewHandler(orderService)
	orderHandler.RegisterRoutes(r)

	// alert feature delivers the low stock alerts the ingredient service
	// decides on
	s.alertSinks = []alert.Sink{
		alert.NewLogSink(),
	}
	if s.KafkaBrokerAddr != "" {
		s.alertSinks = append(
			s.alertSinks,
			alert.NewKafkaSink(s.KafkaBrokerAddr, s.StockAlertTopic),
		)
	}
	alert.NewHandlerEvents(
		&alert.HandlerEventsConfig{
			DoneCh:        s.doneCh,
			InternalSrvWG: s.internalSrvWG,
			EventEngine:   s.eventEngine,
			Sinks:         s.alertSinks,
		},
	)

	return r
}
