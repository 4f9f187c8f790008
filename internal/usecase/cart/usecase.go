package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	cartdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/cart"
	"github.com/jaevor/go-nanoid"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type CartUsecase interface {
	AddItem(ctx context.Context, input *cartdto.AddItemInput) (*cartdto.CartOutput, error)
	UpdateItem(ctx context.Context, input *cartdto.UpdateItemInput) (*cartdto.CartOutput, error)
	RemoveItem(ctx context.Context, userID, projectID string) (*cartdto.CartOutput, error)
	GetCart(ctx context.Context, userID string) (*cartdto.CartOutput, error)
	Checkout(ctx context.Context, input *cartdto.CheckoutInput) (*cartdto.CheckoutOutput, error)

	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error)
}

type Repositories struct {
	Carts    domain.CartRepository
	Orders   domain.OrderRepository
	Payments domain.PaymentRepository
	Projects domain.ProjectRepository
}

type DefaultCartUsecase struct {
	tx          domain.TxManager
	repos       Repositories
	locker      domain.CartLocker
	gateway     domain.PaymentGateway
	publisher   domain.EventPublisher
	metrics     *metrics.MarketplaceMetrics
	pricing     Pricing
	currency    string
	orderNumber func() string
	now         func() time.Time
}

func NewDefaultCartUsecase(
	tx domain.TxManager,
	repos Repositories,
	locker domain.CartLocker,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	m *metrics.MarketplaceMetrics,
	pricing Pricing,
	currency string,
) (*DefaultCartUsecase, error) {
	orderNumber, err := nanoid.CustomASCII(orderNumberAlphabet, 10)
	if err != nil {
		return nil, err
	}
	return &DefaultCartUsecase{
		tx:          tx,
		repos:       repos,
		locker:      locker,
		gateway:     gateway,
		publisher:   publisher,
		metrics:     m,
		pricing:     pricing,
		currency:    currency,
		orderNumber: orderNumber,
		now:         time.Now,
	}, nil
}

// withCartLock runs fn while holding the user's cart lock.
func (uc *DefaultCartUsecase) withCartLock(ctx context.Context, userID string, fn func() error) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (uc *DefaultCartUsecase) output(cart *domain.Cart) (*cartdto.CartOutput, error) {
	totals, err := ComputeTotals(cart.Items, uc.pricing)
	if err != nil {
		return nil, err
	}
	return &cartdto.CartOutput{Cart: *cart, Totals: totals}, nil
}
