package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/validation"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OrderEventPublisher announces committed orders to interested consumers.
// Publishing is best-effort: a failure never affects the committed order.
type OrderEventPublisher interface {
	OrderCreated(ctx context.Context, order domain.Order) error
}

// PlaceOrderParams carries everything the checkout form submits. Exactly one
// of AddressID / NewAddress must be set.
type PlaceOrderParams struct {
	UserID            int64
	AddressID         int64
	NewAddress        *domain.AddressInput
	DeliveryCompanyID int64
	CouponCode        string
	Note              string
}

// CheckoutService turns a persisted cart into an immutable order.
type CheckoutService interface {
	// PlaceOrder runs the fail-fast precondition phase (no writes except
	// creating a submitted new address), recomputes all money from current
	// inventory, then commits the order in a single transaction that
	// conditionally decrements stock. A lost stock race surfaces as
	// domain.ErrInsufficientStock; a cart that drifted since the last sync
	// surfaces as *domain.CartConflictError.
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*domain.Order, error)
}

type checkoutService struct {
	carts     domain.CartStore
	users     domain.UserStore
	delivery  domain.DeliveryStore
	orders    domain.OrderStore
	coupons   CouponService
	validator *validation.Validator
	publisher OrderEventPublisher
	logger    *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(
	carts domain.CartStore,
	users domain.UserStore,
	delivery domain.DeliveryStore,
	orders domain.OrderStore,
	coupons CouponService,
	validator *validation.Validator,
	publisher OrderEventPublisher,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:     carts,
		users:     users,
		delivery:  delivery,
		orders:    orders,
		coupons:   coupons,
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*domain.Order, error) {
	const op = "checkout.place_order"

	if params.UserID == 0 {
		return nil, domain.Unauthorized(op, "You must be logged in to place an order")
	}

	cart, err := s.carts.GetCartByUser(ctx, params.UserID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.ErrCartEmpty
		}
		return nil, err
	}

	lines, err := s.carts.GetLinesWithInventory(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	address, err := s.resolveAddress(ctx, params)
	if err != nil {
		return nil, err
	}

	// A coupon code from the form is always re-resolved server-side;
	// client-sent percentages are never trusted.
	var coupon *domain.Coupon
	if strings.TrimSpace(params.CouponCode) != "" {
		coupon, err = s.coupons.Resolve(ctx, params.CouponCode)
		if err != nil {
			return nil, err
		}
	}

	// The cart may have drifted since the last sync: re-check every line
	// against the inventory rows just read.
	if problems := staleProblems(lines); len(problems) > 0 {
		return nil, &domain.CartConflictError{Problems: problems}
	}

	allFree := lo.EveryBy(lines, func(line domain.CheckoutLine) bool {
		return line.Inventory.FreeDelivery
	})

	var (
		shippingFee     int64
		deliveryCompany string
	)
	if params.DeliveryCompanyID != 0 {
		company, err := s.delivery.GetCompany(ctx, params.DeliveryCompanyID)
		if err != nil {
			return nil, err
		}
		if !company.Active {
			return nil, domain.ErrDeliveryCompanyNotFound
		}
		deliveryCompany = company.Name
		if !allFree {
			shippingFee = company.FeeCentimes
		}
	} else if !allFree {
		return nil, domain.ErrDeliveryCompanyNotFound
	}

	// Subtotal comes from inventory prices recomputed now, not from
	// anything the client or even the persisted cart remembers.
	subtotal := lo.SumBy(lines, func(line domain.CheckoutLine) int64 {
		return int64(line.Quantity) * line.Inventory.FinalPriceCentimes()
	})

	var (
		discount      int64
		couponCode    string
		couponPercent int32
	)
	if coupon != nil {
		discount = domain.DiscountCentimes(subtotal, coupon.Percent)
		couponCode = coupon.Code
		couponPercent = coupon.Percent
	}

	order := domain.Order{
		Number: generateOrderNumber(),
		UserID: params.UserID,
		Status: domain.OrderStatusPending,

		SubtotalCentimes:    subtotal,
		DiscountCentimes:    discount,
		ShippingFeeCentimes: shippingFee,
		TotalCentimes:       subtotal - discount + shippingFee,

		CouponCode:    couponCode,
		CouponPercent: couponPercent,

		ShipFullName: address.FullName,
		ShipPhone:    address.Phone,
		ShipCity:     address.City,
		ShipStreet:   address.Street,

		DeliveryCompany: deliveryCompany,
		Note:            strings.TrimSpace(params.Note),

		Lines: lo.Map(lines, func(line domain.CheckoutLine, _ int) domain.OrderLine {
			return domain.OrderLine{
				ProductTitle:      line.Inventory.ProductTitle,
				SKU:               line.Inventory.SKU,
				VariantName:       line.Inventory.VariantName,
				SizeLabel:         line.Inventory.SizeLabel,
				Quantity:          line.Quantity,
				UnitPriceCentimes: line.Inventory.FinalPriceCentimes(),
			}
		}),
	}

	decrements := lo.Map(lines, func(line domain.CheckoutLine, _ int) domain.StockDecrement {
		return domain.StockDecrement{SizeID: line.SizeID, Quantity: line.Quantity}
	})

	placed, err := s.orders.PlaceOrder(ctx, order, decrements, cart.ID)
	if err != nil {
		return nil, err
	}

	// Post-commit notification is best-effort: the order stands whether or
	// not anyone hears about it.
	if err := s.publisher.OrderCreated(ctx, placed); err != nil {
		s.logger.Error("failed to publish order created event",
			"order_id", placed.ID,
			"order_number", placed.Number,
			"error", err)
	}

	return &placed, nil
}

// resolveAddress loads an existing address (verifying ownership) or validates
// and creates a submitted new one.
func (s *checkoutService) resolveAddress(ctx context.Context, params PlaceOrderParams) (domain.Address, error) {
	const op = "checkout.resolve_address"

	switch {
	case params.AddressID != 0:
		address, err := s.users.GetAddress(ctx, params.AddressID)
		if err != nil {
			return domain.Address{}, err
		}
		if address.UserID != params.UserID {
			return domain.Address{}, domain.ErrNotAddressOwner
		}
		return address, nil

	case params.NewAddress != nil:
		if err := s.validator.Struct(op, *params.NewAddress); err != nil {
			return domain.Address{}, err
		}
		return s.users.CreateAddress(ctx, params.UserID, *params.NewAddress)

	default:
		return domain.Address{}, domain.Invalid(op, "A shipping address is required")
	}
}

// staleProblems re-validates persisted lines against the inventory they were
// just joined with. Price drift is not a problem here: checkout always
// charges the current price.
func staleProblems(lines []domain.CheckoutLine) []domain.LineProblem {
	var problems []domain.LineProblem
	for _, line := range lines {
		switch {
		case !line.Inventory.Active:
			problems = append(problems, domain.LineProblem{
				SizeID:  line.SizeID,
				Kind:    domain.ProblemUnavailable,
				Message: "This item is no longer available",
			})
		case line.Inventory.Stock <= 0:
			problems = append(problems, domain.LineProblem{
				SizeID:  line.SizeID,
				Kind:    domain.ProblemOutOfStock,
				Message: fmt.Sprintf("%s is out of stock", line.Inventory.ProductTitle),
			})
		case line.Quantity > line.Inventory.Stock:
			problems = append(problems, domain.LineProblem{
				SizeID:       line.SizeID,
				Kind:         domain.ProblemQtyReduced,
				Message:      fmt.Sprintf("Only %d of %s left", line.Inventory.Stock, line.Inventory.ProductTitle),
				SuggestedQty: line.Inventory.Stock,
			})
		}
	}
	return problems
}

// generateOrderNumber produces a customer-facing order reference like
// SQ-20260901-4F2A1B8C. Uniqueness is enforced by the orders table.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SQ-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
