package storefront

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/common/httpx"
	"cantina/internal/common/logger"
	"cantina/internal/config"
	"cantina/internal/connections/database"
	"cantina/internal/domain"
	cataloghandlers "cantina/internal/microservices/catalog/handlers"
	catalogrepo "cantina/internal/microservices/catalog/repository"
	catalogsvc "cantina/internal/microservices/catalog/service"
	notifyhandlers "cantina/internal/microservices/notificator/handlers"
	notifyrepo "cantina/internal/microservices/notificator/repository"
	notifysvc "cantina/internal/microservices/notificator/service"
	orderdto "cantina/internal/microservices/order/domain/dto"
	orderhandlers "cantina/internal/microservices/order/handlers"
	orderrepo "cantina/internal/microservices/order/repository"
	ordersvc "cantina/internal/microservices/order/service"
	paymenthandlers "cantina/internal/microservices/payment/handlers"
	paymentrepo "cantina/internal/microservices/payment/repository"
	paymentsvc "cantina/internal/microservices/payment/service"
	queuehandlers "cantina/internal/microservices/queue/handlers"
	queuerepo "cantina/internal/microservices/queue/repository"
	queuesvc "cantina/internal/microservices/queue/service"
)

const (
	sweepEvery = time.Minute
	idleAfter  = 10 * time.Minute
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type App struct {
	cfg      *config.Config
	lg       *logger.Logger
	router   chi.Router
	payments *paymentsvc.PaymentService
	limiter  *httpx.RateLimiter
	checks   map[string]Pinger
}

// New wires every microservice onto one router. publisher may be nil when RabbitMQ is disabled.
func New(cfg *config.Config, db database.DB, publisher ordersvc.Publisher, lg *logger.Logger) (*App, error) {
	fee, err := cfg.DeliveryFee()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, err := paymentrepo.NewStore(cfg.Payment.Store, db)
	if err != nil {
		return nil, err
	}

	catalogRepo := catalogrepo.New(db)
	catalog := catalogsvc.New(catalogRepo)
	queue := queuesvc.New(queuerepo.New(db), loc, lg)
	notify := notifysvc.New(notifyrepo.New(db), notifysvc.NewLogNotifier(lg), lg)

	// payments move orders and checkout creates payments
	var orders ordersvc.OrderServiceInterface
	payments := paymentsvc.New(store, cfg, func(ctx context.Context, id uuid.UUID, to domain.OrderStatus, by string) error {
		_, err := orders.UpdateStatus(ctx, id, orderdto.StatusRequest{Status: string(to)}, by)
		return err
	}, lg)
	order := ordersvc.New(orderrepo.New(db), ordersvc.Deps{
		Products:    catalogRepo.ProductRepo,
		Tickets:     queue.QueueService,
		Charger:     chargeWith(payments.PaymentService),
		Publisher:   publisher,
		DeliveryFee: fee,
		Location:    loc,
	}, lg)
	orders = order.OrderService

	limiter := httpx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	a := &App{
		cfg:      cfg,
		lg:       lg,
		payments: payments.PaymentService,
		limiter:  limiter,
		checks:   make(map[string]Pinger),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.RequestLogger(lg))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.Server.MaxBodyBytes))
	}
	r.Get("/healthz", a.health)

	catalogH := cataloghandlers.New(catalog, lg).CatalogHandler
	queueH := queuehandlers.New(queue, lg).QueueHandler
	orderH := orderhandlers.New(order, lg, limiter.Middleware).OrderHandler
	paymentH := paymenthandlers.New(payments, cfg.Payment.WebhookSecret, lg).PaymentHandler
	recipientH := notifyhandlers.New(notify, lg).RecipientHandler

	r.Route("/api", func(r chi.Router) {
		catalogH.RegisterRoutes(r)
		queueH.RegisterRoutes(r)
		orderH.RegisterRoutes(r)
		paymentH.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(httpx.AdminAuth(cfg.Admin.JWTSecret, cfg.Admin.Emails))
			catalogH.RegisterAdminRoutes(r)
			queueH.RegisterAdminRoutes(r)
			orderH.RegisterAdminRoutes(r)
			recipientH.RegisterAdminRoutes(r)
		})
	})
	a.router = r
	return a, nil
}

// chargeWith adapts the payment service to the checkout Charger.
func chargeWith(p *paymentsvc.PaymentService) ordersvc.Charger {
	return ordersvc.ChargerFunc(func(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (orderdto.Charge, error) {
		c, err := p.CreateCharge(ctx, orderID, amount, reference)
		if err != nil {
			return orderdto.Charge{}, err
		}
		return orderdto.Charge{
			PaymentID:  c.ID,
			Amount:     c.Amount,
			PixPayload: c.PixPayload,
			QRCodeURL:  c.QRCodeURL,
			ExpiresAt:  c.ExpiresAt,
		}, nil
	})
}

// AddCheck registers a dependency checked by /healthz.
func (a *App) AddCheck(name string, p Pinger) { a.checks[name] = p }

func (a *App) Handler() http.Handler { return a.router }

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	code := http.StatusOK
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			status[name] = "down"
			code = http.StatusServiceUnavailable
			a.lg.Warn("health_check_failed", map[string]any{"check": name, "reason": err.Error()})
			continue
		}
		status[name] = "ok"
	}
	httpx.WriteJSON(w, code, map[string]any{"status": http.StatusText(code), "checks": status})
}

// Run serves HTTP and the background loops until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.payments.RunExpiry(ctx, a.cfg.Payment.ExpiryInterval)
	}()
	go func() {
		defer wg.Done()
		a.limiter.RunSweeper(ctx, sweepEvery, idleAfter)
	}()

	a.lg.Info("service_started", map[string]any{"port": a.cfg.Server.Port, "payment_store": a.cfg.Payment.Store})
	err := httpx.NewFromConfig(a.cfg.Server, a.router).Run(ctx)
	cancel()
	wg.Wait()
	return err
}
