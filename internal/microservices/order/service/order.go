package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/cart"
	"cantina/internal/common/logger"
	"cantina/internal/domain"
	catalog "cantina/internal/microservices/catalog/domain/dao"
	"cantina/internal/microservices/order/domain/dao"
	"cantina/internal/microservices/order/domain/dto"
	"cantina/internal/microservices/order/repository"
)

const (
	maxCartLines   = 50
	maxLineQty     = 99
	maxNameLen     = 80
	maxPhoneLen    = 20
	maxAddressLen  = 300
	defaultPage    = 50
	maxPage        = 200
	publishTimeout = 5 * time.Second
	changedByStore = "storefront"
)

// ProductLookup resolves cart product ids against the catalog.
type ProductLookup interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error)
}

// TicketIssuer hands out the daily ticket number.
type TicketIssuer interface {
	NextTicketNumber(ctx context.Context) (int, error)
}

// Charger creates the PIX charge for a freshly placed order.
type Charger interface {
	CreateCharge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.Charge, error)
}

type ChargerFunc func(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.Charge, error)

func (f ChargerFunc) CreateCharge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reference string) (dto.Charge, error) {
	return f(ctx, orderID, amount, reference)
}

// Publisher is satisfied by *rabbitmq.Client.
type Publisher interface {
	Publish(ctx context.Context, routingKey, correlationID string, body []byte) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

type OrderServiceInterface interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	CreateOrder(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error)
	Timeline(ctx context.Context, id uuid.UUID) ([]dto.TimelineEntry, error)
	List(ctx context.Context, f dto.ListFilter) ([]dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest, changedBy string) (dto.OrderResponse, error)
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type Deps struct {
	Products    ProductLookup
	Tickets     TicketIssuer
	Charger     Charger // nil disables pix checkout
	Publisher   Publisher
	DeliveryFee decimal.Decimal
	Location    *time.Location
}

type OrderService struct {
	db        repository.OrderRepositoryInterface
	products  ProductLookup
	tickets   TicketIssuer
	charger   Charger
	publisher Publisher
	fee       decimal.Decimal
	loc       *time.Location
	now       func() time.Time
	lg        *logger.Logger
}

func NewOrderService(db repository.OrderRepositoryInterface, deps Deps, lg *logger.Logger) *OrderService {
	s := &OrderService{
		db:        db,
		products:  deps.Products,
		tickets:   deps.Tickets,
		charger:   deps.Charger,
		publisher: deps.Publisher,
		fee:       deps.DeliveryFee,
		loc:       deps.Location,
		now:       time.Now,
		lg:        lg,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

func (s *OrderService) deliveryFee(delivery bool) decimal.Decimal {
	if delivery {
		return s.fee
	}
	return decimal.Zero
}

// price loads the requested products and aggregates them through a cart.
// Unknown ids are a validation error, unavailable products are ErrUnavailable.
func (s *OrderService) price(ctx context.Context, items []dto.CartItemRequest) (*cart.Cart, error) {
	if len(items) == 0 {
		return nil, domain.Validationf("at least one item is required")
	}
	if len(items) > maxCartLines {
		return nil, domain.Validationf("too many items, at most %d lines", maxCartLines)
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.ProductID == uuid.Nil {
			return nil, domain.Validationf("product_id is required")
		}
		if it.Quantity <= 0 || it.Quantity > maxLineQty {
			return nil, domain.Validationf("invalid quantity for product %s", it.ProductID)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	c := cart.New()
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, domain.Validationf("unknown product %s", it.ProductID)
		}
		if !p.Available {
			return nil, fmt.Errorf("%w: %s is not available", domain.ErrUnavailable, p.Name)
		}
		c.Add(cart.Item{ProductID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Quantity: it.Quantity})
	}
	return c, nil
}

func (s *OrderService) Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
	c, err := s.price(ctx, req.Items)
	if err != nil {
		return dto.QuoteResponse{}, err
	}
	fee := s.deliveryFee(req.Delivery)
	resp := dto.QuoteResponse{
		Lines:       make([]dto.QuoteLine, 0, c.Len()),
		ItemCount:   c.Count(),
		Subtotal:    c.Total().StringFixed(2),
		DeliveryFee: fee.StringFixed(2),
		Total:       c.Total().Add(fee).StringFixed(2),
	}
	for _, l := range c.Lines() {
		resp.Lines = append(resp.Lines, dto.QuoteLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			ImageURL:  l.ImageURL,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return resp, nil
}

func validateCustomer(req *dto.CheckoutRequest) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)

	if req.CustomerName == "" {
		return domain.Validationf("customer name is required")
	}
	if len([]rune(req.CustomerName)) > maxNameLen {
		return domain.Validationf("customer name is too long")
	}
	if len(req.CustomerPhone) > maxPhoneLen {
		return domain.Validationf("customer phone is too long")
	}
	if req.Delivery && req.DeliveryAddress == "" {
		return domain.Validationf("delivery address is required for delivery")
	}
	if len([]rune(req.DeliveryAddress)) > maxAddressLen {
		return domain.Validationf("delivery address is too long")
	}
	if !req.Delivery {
		req.DeliveryAddress = ""
	}
	return nil
}

// place validates, prices and stores a pending order.
func (s *OrderService) place(ctx context.Context, req dto.CheckoutRequest) (dao.Order, error) {
	if err := validateCustomer(&req); err != nil {
		return dao.Order{}, err
	}
	c, err := s.price(ctx, req.Items)
	if err != nil {
		return dao.Order{}, err
	}

	n, err := s.tickets.NextTicketNumber(ctx)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to draw ticket number: %w", err)
	}

	fee := s.deliveryFee(req.Delivery)
	order := dao.Order{
		ID:              uuid.New(),
		TicketNumber:    n,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Delivery:        req.Delivery,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		DeliveryFee:     fee,
		TotalAmount:     c.Total().Add(fee),
		Status:          domain.OrderPending,
	}
	for _, l := range c.Lines() {
		order.Items = append(order.Items, dao.OrderItem{
			ProductID: uuid.NullUUID{UUID: l.ProductID, Valid: true},
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}

	order, err = s.db.Create(ctx, order, changedByStore)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	s.lg.Info("order_created", map[string]any{
		"order_id": order.ID,
		"ticket":   domain.TicketCode(order.TicketNumber),
		"total":    order.TotalAmount.StringFixed(2),
		"payment":  order.PaymentMethod,
	})
	return order, nil
}

func (s *OrderService) Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	switch req.PaymentMethod {
	case dto.PaymentPix:
		if s.charger == nil {
			return dto.CheckoutResponse{}, fmt.Errorf("%w: pix payments are not configured", domain.ErrUnavailable)
		}
	case dto.PaymentCash:
	default:
		return dto.CheckoutResponse{}, domain.Validationf("payment_method must be pix or cash")
	}

	order, err := s.place(ctx, req)
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	var charge *dto.Charge
	if req.PaymentMethod == dto.PaymentPix {
		ch, err := s.charger.CreateCharge(ctx, order.ID, order.TotalAmount, domain.TicketCode(order.TicketNumber))
		if err != nil {
			s.abandon(ctx, order.ID, err)
			return dto.CheckoutResponse{}, fmt.Errorf("failed to create charge: %w", err)
		}
		if err := s.db.SetPayment(ctx, order.ID, ch.PaymentID); err != nil {
			return dto.CheckoutResponse{}, err
		}
		order.PaymentID = uuid.NullUUID{UUID: ch.PaymentID, Valid: true}
		charge = &ch
	}

	s.publish(ctx, domain.EventOrderCreated, order, "", changedByStore)
	return dto.CheckoutResponse{Order: dto.ToOrderResponse(order), Payment: charge}, nil
}

// abandon cancels an order whose charge could not be created.
func (s *OrderService) abandon(ctx context.Context, id uuid.UUID, cause error) {
	_, _, err := s.db.TransitionTx(ctx, id, changedByStore, "charge failed", func(from domain.OrderStatus) (domain.OrderStatus, error) {
		return domain.OrderCancelled, nil
	})
	if err != nil {
		s.lg.Error("order_abandon_failed", err, map[string]any{"order_id": id})
		return
	}
	s.lg.Warn("order_abandoned", map[string]any{"order_id": id, "cause": cause.Error()})
}

// CreateOrder places a cash order without a payment charge.
func (s *OrderService) CreateOrder(ctx context.Context, req dto.CheckoutRequest) (dto.OrderResponse, error) {
	req.PaymentMethod = dto.PaymentCash
	order, err := s.place(ctx, req)
	if err != nil {
		return dto.OrderResponse{}, err
	}
	s.publish(ctx, domain.EventOrderCreated, order, "", changedByStore)
	return dto.ToOrderResponse(order), nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (dto.OrderResponse, error) {
	o, err := s.db.Get(ctx, id)
	if err != nil {
		return dto.OrderResponse{}, err
	}
	return dto.ToOrderResponse(o), nil
}

func (s *OrderService) Timeline(ctx context.Context, id uuid.UUID) ([]dto.TimelineEntry, error) {
	ls, err := s.db.Timeline(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTimeline(ls), nil
}

func (s *OrderService) List(ctx context.Context, f dto.ListFilter) ([]dto.OrderResponse, error) {
	status := domain.OrderStatus(f.Status)
	if status != "" && !status.Valid() {
		return nil, domain.Validationf("unknown order status %q", f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultPage
	}
	if limit > maxPage {
		limit = maxPage
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	orders, err := s.db.List(ctx, dao.ListFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponses(orders), nil
}

// UpdateStatus applies one lifecycle step, or cancels an open order.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest, changedBy string) (dto.OrderResponse, error) {
	to := domain.OrderStatus(strings.TrimSpace(req.Status))
	if !to.Valid() {
		return dto.OrderResponse{}, domain.Validationf("unknown order status %q", req.Status)
	}
	if changedBy == "" {
		changedBy = "admin"
	}

	o, from, err := s.db.TransitionTx(ctx, id, changedBy, strings.TrimSpace(req.Notes), func(from domain.OrderStatus) (domain.OrderStatus, error) {
		if !from.CanTransition(to) {
			return "", domain.TransitionError(from, to)
		}
		return to, nil
	})
	if err != nil {
		return dto.OrderResponse{}, err
	}
	s.lg.Info("order_status_changed", map[string]any{"order_id": id, "from": from, "to": to, "by": changedBy})
	s.publish(ctx, domain.StatusRoutingKey(to), o, from, changedBy)
	return dto.ToOrderResponse(o), nil
}

func (s *OrderService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	n := s.now().In(s.loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
	st, err := s.db.Stats(ctx, start)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	resp := dto.StatsResponse{
		Day:          start.Format(time.DateOnly),
		OrdersToday:  st.Orders,
		RevenueToday: st.Revenue.StringFixed(2),
		ByStatus:     make(map[string]int, len(st.ByStatus)),
	}
	for k, v := range st.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	return resp, nil
}

// publish logs failures instead of returning them; the order is already committed.
func (s *OrderService) publish(ctx context.Context, event string, o dao.Order, old domain.OrderStatus, changedBy string) {
	body, err := json.Marshal(dto.ToMessage(event, o, old, changedBy, s.now()))
	if err != nil {
		s.lg.Error("order_event_marshal_failed", err, map[string]any{"order_id": o.ID})
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event, o.ID.String(), body); err != nil {
		s.lg.Error("order_event_publish_failed", err, map[string]any{"order_id": o.ID, "event": event})
		return
	}
	s.lg.Debug("order_event_published", map[string]any{"order_id": o.ID, "event": event})
}
