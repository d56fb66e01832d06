package domain

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPreparing  OrderStatus = "preparing"
	OrderDelivering OrderStatus = "delivering"
	OrderDone       OrderStatus = "done"
	OrderCancelled  OrderStatus = "cancelled"
)

// порядок жизненного цикла заказа, cancelled стоит отдельно
var orderFlow = []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderDelivering, OrderDone}

func (s OrderStatus) Valid() bool {
	return s == OrderCancelled || indexOf(orderFlow, s) >= 0
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool { return s == OrderDone || s == OrderCancelled }

// Next returns the single status that may follow s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := indexOf(orderFlow, s)
	if i < 0 || i == len(orderFlow)-1 {
		return "", false
	}
	return orderFlow[i+1], true
}

// CanTransition allows the next step only, plus cancellation of any open order.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == to
}

type TicketStatus string

const (
	TicketReceived  TicketStatus = "received"
	TicketPreparing TicketStatus = "preparing"
	TicketReady     TicketStatus = "ready"
	TicketDelivered TicketStatus = "delivered"
)

var ticketFlow = []TicketStatus{TicketReceived, TicketPreparing, TicketReady, TicketDelivered}

func (s TicketStatus) Valid() bool { return indexOf(ticketFlow, s) >= 0 }

func (s TicketStatus) Next() (TicketStatus, bool) {
	i := indexOf(ticketFlow, s)
	if i < 0 || i == len(ticketFlow)-1 {
		return "", false
	}
	return ticketFlow[i+1], true
}

func (s TicketStatus) CanTransition(to TicketStatus) bool {
	next, ok := s.Next()
	return ok && next == to
}

// Behind reports whether s comes strictly before to on the board.
func (s TicketStatus) Behind(to TicketStatus) bool {
	i, j := indexOf(ticketFlow, s), indexOf(ticketFlow, to)
	return i >= 0 && j > i
}

// TicketStatusFor maps an order status onto the queue board.
// Pending and cancelled orders have no ticket.
func TicketStatusFor(s OrderStatus) (TicketStatus, bool) {
	switch s {
	case OrderConfirmed:
		return TicketReceived, true
	case OrderPreparing:
		return TicketPreparing, true
	case OrderDelivering:
		return TicketReady, true
	case OrderDone:
		return TicketDelivered, true
	default:
		return "", false
	}
}

func indexOf[T comparable](flow []T, s T) int {
	for i, v := range flow {
		if v == s {
			return i
		}
	}
	return -1
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
)
