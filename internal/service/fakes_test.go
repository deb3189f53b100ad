package service

import (
	"context"
	"sync"
	"time"

	"github.com/eventhive/ticketing-api/internal/domain"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/repository"
)

// fakeOrderRepo is an in-memory OrderRepository with the same
// conditional-transition semantics as the real DAO. The mutex makes it
// safe for the concurrency tests.
type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]domain.Order

	// remaining mirrors inventory for CreateFree and Settle, keyed by
	// ticket type id.
	remaining map[uint]int

	// organizers maps ticket type id to its event organizer, standing
	// in for the join the real DAO does.
	organizers map[uint]uint

	failCreate       error
	failSetReference error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		nextID:     1,
		orders:     make(map[uint]domain.Order),
		remaining:  make(map[uint]int),
		organizers: make(map[uint]uint),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return domain.Order{}, f.failCreate
	}

	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order

	return order, nil
}

func (f *fakeOrderRepo) CreateFree(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.remaining[order.TicketTypeID] < order.Quantity {
		return domain.Order{}, repository.ErrInsufficientInventory
	}
	f.remaining[order.TicketTypeID] -= order.Quantity

	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order

	return order, nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uint) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (f *fakeOrderRepo) FindByBuyer(_ context.Context, buyerID uint) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}

	return out, nil
}

func (f *fakeOrderRepo) FindByReference(_ context.Context, reference string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		if o.ProviderReference == reference {
			return o, nil
		}
	}

	return domain.Order{}, repository.ErrOrderNotFound
}

func (f *fakeOrderRepo) SetProviderReference(_ context.Context, id uint, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSetReference != nil {
		return f.failSetReference
	}

	order, ok := f.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.ProviderReference = reference
	f.orders[id] = order

	return nil
}

func (f *fakeOrderRepo) Settle(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return false, repository.ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentPending {
		return false, repository.ErrOrderNotPending
	}

	order.PaymentStatus = domain.PaymentCompleted
	f.orders[id] = order

	if f.remaining[order.TicketTypeID] < order.Quantity {
		return false, nil
	}
	f.remaining[order.TicketTypeID] -= order.Quantity

	return true, nil
}

func (f *fakeOrderRepo) Fail(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentPending {
		return repository.ErrOrderNotPending
	}

	order.PaymentStatus = domain.PaymentFailed
	f.orders[id] = order

	return nil
}

func (f *fakeOrderRepo) FailStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, o := range f.orders {
		if o.PaymentStatus == domain.PaymentPending && o.CreatedAt.Before(cutoff) {
			o.PaymentStatus = domain.PaymentFailed
			f.orders[id] = o
			n++
		}
	}

	return n, nil
}

func (f *fakeOrderRepo) FindUntransferred(_ context.Context, organizerID, eventID uint) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Order
	for _, o := range f.orders {
		if o.EventID == eventID &&
			f.organizers[o.TicketTypeID] == organizerID &&
			o.PaymentStatus == domain.PaymentCompleted &&
			o.PayoutStatus == domain.PayoutPending &&
			o.OrganizerAmount.IsPositive() {
			out = append(out, o)
		}
	}

	return out, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uint]domain.TicketType
}

func newFakeTicketRepo(tts ...domain.TicketType) *fakeTicketRepo {
	f := &fakeTicketRepo{tickets: make(map[uint]domain.TicketType)}
	for _, tt := range tts {
		f.tickets[tt.ID] = tt
	}

	return f
}

func (f *fakeTicketRepo) FindByID(_ context.Context, id uint) (domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tt, ok := f.tickets[id]
	if !ok {
		return domain.TicketType{}, repository.ErrTicketTypeNotFound
	}

	return tt, nil
}

func (f *fakeTicketRepo) FindByEvent(_ context.Context, eventID uint) ([]domain.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.TicketType
	for _, tt := range f.tickets {
		if tt.EventID == eventID {
			out = append(out, tt)
		}
	}

	return out, nil
}

type fakeGateway struct {
	mu sync.Mutex

	initErr     error
	initResult  payment.InitializeResult
	initCalls   []payment.InitializeRequest
	transferErr error
	transferRes payment.TransferResult
	transfers   []payment.TransferRequest
}

func (f *fakeGateway) InitializeTransaction(_ context.Context, req payment.InitializeRequest) (payment.InitializeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.initCalls = append(f.initCalls, req)
	if f.initErr != nil {
		return payment.InitializeResult{}, f.initErr
	}

	return f.initResult, nil
}

func (f *fakeGateway) InitiateTransfer(_ context.Context, req payment.TransferRequest) (payment.TransferResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transfers = append(f.transfers, req)
	if f.transferErr != nil {
		return payment.TransferResult{}, f.transferErr
	}

	return f.transferRes, nil
}

// fakeNotifier records completed-order notifications and signals each
// one, so tests can wait for the detached goroutine.
type fakeNotifier struct {
	mu       sync.Mutex
	notified []domain.Order
	ch       chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan struct{}, 16)}
}

func (f *fakeNotifier) NotifyOrderCompleted(_ context.Context, order domain.Order) error {
	f.mu.Lock()
	f.notified = append(f.notified, order)
	f.mu.Unlock()
	f.ch <- struct{}{}

	return nil
}

func (f *fakeNotifier) wait(timeout time.Duration) bool {
	select {
	case <-f.ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

type fakeTransferRepo struct {
	mu        sync.Mutex
	nextID    uint
	transfers map[uint]domain.Transfer
	claims    map[uint]uint // order id -> transfer id

	conflictOnce bool

	orderRepo *fakeOrderRepo
}

func newFakeTransferRepo(orderRepo *fakeOrderRepo) *fakeTransferRepo {
	return &fakeTransferRepo{
		nextID:    1,
		transfers: make(map[uint]domain.Transfer),
		claims:    make(map[uint]uint),
		orderRepo: orderRepo,
	}
}

func (f *fakeTransferRepo) CreateWithClaims(_ context.Context, transfer domain.Transfer, orderIDs []uint) (domain.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conflictOnce {
		f.conflictOnce = false
		return domain.Transfer{}, repository.ErrTransferConflict
	}

	for _, id := range orderIDs {
		if _, claimed := f.claims[id]; claimed {
			return domain.Transfer{}, repository.ErrTransferConflict
		}
	}

	transfer.ID = f.nextID
	f.nextID++
	f.transfers[transfer.ID] = transfer

	for _, id := range orderIDs {
		f.claims[id] = transfer.ID
		if f.orderRepo != nil {
			f.orderRepo.mu.Lock()
			o := f.orderRepo.orders[id]
			o.PayoutStatus = domain.PayoutCompleted
			tid := transfer.ID
			o.TransferID = &tid
			f.orderRepo.orders[id] = o
			f.orderRepo.mu.Unlock()
		}
	}

	return transfer, nil
}

func (f *fakeTransferRepo) FindByID(_ context.Context, id uint) (domain.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transfer, ok := f.transfers[id]
	if !ok {
		return domain.Transfer{}, repository.ErrTransferNotFound
	}

	return transfer, nil
}

func (f *fakeTransferRepo) FindByOrganizer(_ context.Context, organizerID uint) ([]domain.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transfer
	for _, tr := range f.transfers {
		if tr.OrganizerID == organizerID {
			out = append(out, tr)
		}
	}

	return out, nil
}
