package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/common/logger"
	"cantina/internal/domain"
	"cantina/internal/microservices/queue/domain/dao"
	"cantina/internal/microservices/queue/domain/dto"
	"cantina/internal/microservices/queue/repository"
)

// TicketCounter is the single daily counter shared by orders and walk-in tickets.
const TicketCounter = "tickets"

type QueueServiceInterface interface {
	List(ctx context.Context) ([]dto.TicketResponse, error)
	Issue(ctx context.Context, req dto.IssueTicketRequest) (dto.TicketResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest) (dto.TicketResponse, error)
	Sync(ctx context.Context) (dto.SyncResponse, error)
	Clear(ctx context.Context) (dto.ClearResponse, error)
	ResetCheck(ctx context.Context) (dto.ResetResponse, error)
	NextTicketNumber(ctx context.Context) (int, error)
}

type QueueService struct {
	tickets repository.TicketRepositoryInterface
	counter repository.CounterRepositoryInterface
	loc     *time.Location
	now     func() time.Time
	lg      *logger.Logger
}

func NewQueueService(tickets repository.TicketRepositoryInterface, counter repository.CounterRepositoryInterface, loc *time.Location, lg *logger.Logger) *QueueService {
	if loc == nil {
		loc = time.UTC
	}
	return &QueueService{tickets: tickets, counter: counter, loc: loc, now: time.Now, lg: lg}
}

// today returns the store-local date and the instant it started.
func (s *QueueService) today() (string, time.Time) {
	n := s.now().In(s.loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
	return start.Format(time.DateOnly), start
}

func (s *QueueService) NextTicketNumber(ctx context.Context) (int, error) {
	day, _ := s.today()
	return s.counter.Next(ctx, TicketCounter, day)
}

func (s *QueueService) List(ctx context.Context) ([]dto.TicketResponse, error) {
	ts, err := s.tickets.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToTicketResponses(ts), nil
}

func (s *QueueService) Issue(ctx context.Context, req dto.IssueTicketRequest) (dto.TicketResponse, error) {
	if len(req.Items) == 0 {
		return dto.TicketResponse{}, domain.Validationf("at least one item is required")
	}
	items := make([]dao.TicketItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return dto.TicketResponse{}, domain.Validationf("item name is required")
		}
		if it.Quantity <= 0 {
			return dto.TicketResponse{}, domain.Validationf("invalid quantity for item %s", name)
		}
		if it.Price.IsNegative() {
			return dto.TicketResponse{}, domain.Validationf("invalid price for item %s", name)
		}
		items = append(items, dao.TicketItem{Name: name, Quantity: it.Quantity, Price: it.Price})
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	n, err := s.NextTicketNumber(ctx)
	if err != nil {
		return dto.TicketResponse{}, err
	}
	t, err := s.tickets.Insert(ctx, dao.Ticket{
		ID:     uuid.New(),
		Code:   domain.TicketCode(n),
		Status: domain.TicketReceived,
		Items:  items,
		Total:  total,
	})
	if err != nil {
		return dto.TicketResponse{}, err
	}
	s.lg.Info("ticket_issued", map[string]any{"ticket_id": t.ID, "code": t.Code, "total": t.Total.StringFixed(2)})
	return dto.ToTicketResponse(t), nil
}

// SetStatus moves a ticket one step forward. An empty target means "the next step".
func (s *QueueService) SetStatus(ctx context.Context, id uuid.UUID, req dto.StatusRequest) (dto.TicketResponse, error) {
	target := domain.TicketStatus(strings.TrimSpace(req.Status))
	if target != "" && !target.Valid() {
		return dto.TicketResponse{}, domain.Validationf("unknown ticket status %q", req.Status)
	}

	t, err := s.tickets.TransitionTx(ctx, id, func(from domain.TicketStatus) (domain.TicketStatus, error) {
		to := target
		if to == "" {
			next, ok := from.Next()
			if !ok {
				return "", domain.TransitionError(from, "next")
			}
			to = next
		}
		if !from.CanTransition(to) {
			return "", domain.TransitionError(from, to)
		}
		return to, nil
	})
	if err != nil {
		return dto.TicketResponse{}, err
	}
	s.lg.Info("ticket_status_changed", map[string]any{"ticket_id": t.ID, "code": t.Code, "status": t.Status})
	return dto.ToTicketResponse(t), nil
}

// Sync mirrors today's paid orders onto the board and returns how many tickets were
// written. Tickets only move forward; tickets of cancelled orders are removed.
func (s *QueueService) Sync(ctx context.Context) (dto.SyncResponse, error) {
	_, since := s.today()
	orders, err := s.tickets.OrdersSince(ctx, since)
	if err != nil {
		return dto.SyncResponse{}, err
	}

	synced := 0
	for _, o := range orders {
		status, ok := domain.TicketStatusFor(o.Status)
		if !ok {
			continue
		}
		written, err := s.tickets.UpsertForOrder(ctx, dao.Ticket{
			ID:        uuid.New(),
			Code:      domain.TicketCode(o.TicketNumber),
			OrderID:   uuid.NullUUID{UUID: o.ID, Valid: true},
			Status:    status,
			Items:     o.Items,
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
		})
		if err != nil {
			return dto.SyncResponse{Synced: synced}, err
		}
		if written {
			synced++
		}
	}

	removed, err := s.tickets.DeleteCancelled(ctx)
	if err != nil {
		return dto.SyncResponse{Synced: synced}, err
	}
	s.lg.Info("queue_synced", map[string]any{"synced": synced, "removed": removed})
	return dto.SyncResponse{Synced: synced, Removed: removed}, nil
}

func (s *QueueService) Clear(ctx context.Context) (dto.ClearResponse, error) {
	n, err := s.tickets.DeleteAll(ctx)
	if err != nil {
		return dto.ClearResponse{}, err
	}
	s.lg.Info("queue_cleared", map[string]any{"deleted": n})
	return dto.ClearResponse{Deleted: n}, nil
}

// ResetCheck restarts the daily counter when its marker is from a previous day and
// drops tickets created before today.
func (s *QueueService) ResetCheck(ctx context.Context) (dto.ResetResponse, error) {
	day, start := s.today()
	reset, err := s.counter.ResetIfStale(ctx, TicketCounter, day)
	if err != nil {
		return dto.ResetResponse{}, err
	}
	dropped, err := s.tickets.DeleteBefore(ctx, start)
	if err != nil {
		return dto.ResetResponse{Reset: reset, Day: day}, err
	}
	if reset || dropped > 0 {
		s.lg.Info("queue_daily_reset", map[string]any{"day": day, "reset": reset, "dropped": dropped})
	}
	return dto.ResetResponse{Reset: reset, Dropped: dropped, Day: day}, nil
}
