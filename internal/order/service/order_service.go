package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/infrastructure/metrics"
)

type CustomerLookup interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.User, error)
}

type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type OrderStore interface {
	Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (*domain.OrderWithItems, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindItems(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
}

type OrderItemInput struct {
	ProductID int
	Qty       int
}

type OrderService struct {
	customers CustomerLookup
	products  ProductLookup
	store     OrderStore
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewOrderService(
	customers CustomerLookup,
	products ProductLookup,
	store OrderStore,
	logger *zap.Logger,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		customers: customers,
		products:  products,
		store:     store,
		logger:    logger,
		metrics:   m,
	}
}

// CreateOrder validates the customer, products and vendors, prices every line
// item from the product's current price, and persists the order header with
// its items atomically. Totals are integer minor-units; client-supplied
// prices are never consulted.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int, items []OrderItemInput) (*domain.OrderWithItems, error) {
	if err := validateItems(customerID, items); err != nil {
		return nil, err
	}

	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError("customer not found")
		}
		return nil, err
	}

	productIDs := distinctProductIDs(items)
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, apperrors.NewNotFoundError("one or more products not found")
	}

	priceByProduct := make(map[int]decimal.Decimal, len(products))
	vendorByProduct := make(map[int]int, len(products))
	for _, p := range products {
		priceByProduct[p.ID] = p.Price
		vendorByProduct[p.ID] = p.VendorID
	}

	vendorIDs := distinctVendorIDs(products)
	vendors, err := s.customers.FindByIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}
	if len(vendors) != len(vendorIDs) {
		return nil, apperrors.NewNotFoundError("one or more vendors not found")
	}

	orderItems, amount := priceItems(items, priceByProduct)

	created, err := s.store.Create(ctx, domain.Order{
		Amount:     amount,
		Status:     domain.OrderStatusPending,
		CustomerID: customerID,
		VendorIDs:  vendorIDs,
	}, orderItems)
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderAmountCents.Observe(float64(amount))
	s.logger.Info("order created",
		zap.Uint("orderId", created.ID),
		zap.Int("customerId", customerID),
		zap.Int64("amount", amount),
		zap.Int("itemCount", len(orderItems)),
	)

	return created, nil
}

// GetOrderByID loads an order with its items and enforces visibility: admins
// see everything, a vendor must appear in the order's vendor set, a customer
// must own the order.
func (s *OrderService) GetOrderByID(ctx context.Context, id uint, requester domain.AuthUser) (*domain.OrderWithItems, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOrderAccess(order, requester); err != nil {
		return nil, err
	}

	items, err := s.store.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.OrderWithItems{Order: *order, Items: items}, nil
}

// ListByCustomer returns a customer's orders, most recent first.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

// ListAll returns every order, most recent first.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListAll(ctx)
}

// ListCustomerOrders returns customerID's orders. Admins may list any
// customer; everyone else only their own.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int, requester domain.AuthUser) ([]domain.Order, error) {
	switch requester.Role {
	case domain.RoleSuperAdmin, domain.RoleAdmin:
	default:
		if requester.ID != customerID {
			return nil, apperrors.NewForbiddenError("access denied")
		}
	}
	return s.store.ListByCustomer(ctx, customerID)
}

// UpdateStatus overwrites the order status. Any transition between the three
// statuses is permitted, including backward ones.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid order status %q", status))
	}

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.store.FindByID(ctx, id)
}

func validateItems(customerID int, items []OrderItemInput) error {
	var details []apperrors.ValidationDetail

	if customerID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "customerId must be a positive integer",
		})
	}

	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	for idx, item := range items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", idx),
				Message: "productId must be a positive integer",
			})
		}
		if item.Qty <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].qty", idx),
				Message: "qty must be a positive integer",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func distinctProductIDs(items []OrderItemInput) []int {
	seen := make(map[int]struct{}, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func distinctVendorIDs(products []domain.Product) []int {
	seen := make(map[int]struct{}, len(products))
	ids := make([]int, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.VendorID]; ok {
			continue
		}
		seen[p.VendorID] = struct{}{}
		ids = append(ids, p.VendorID)
	}
	return ids
}

// priceItems computes each line total as round(price × qty × 100) in integer
// minor-units, rounding half away from zero, and sums them into the order
// amount.
func priceItems(items []OrderItemInput, priceByProduct map[int]decimal.Decimal) ([]domain.OrderItem, int64) {
	orderItems := make([]domain.OrderItem, 0, len(items))
	var amount int64

	for _, item := range items {
		price := priceByProduct[item.ProductID]
		total := price.Mul(decimal.NewFromInt(int64(item.Qty))).Shift(2).Round(0).IntPart()
		amount += total

		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Total:     total,
		})
	}

	return orderItems, amount
}

func authorizeOrderAccess(order *domain.Order, requester domain.AuthUser) error {
	switch requester.Role {
	case domain.RoleSuperAdmin, domain.RoleAdmin:
		return nil
	case domain.RoleVendor:
		for _, vendorID := range order.VendorIDs {
			if vendorID == requester.ID {
				return nil
			}
		}
	case domain.RoleCustomer:
		if order.CustomerID == requester.ID {
			return nil
		}
	}
	return apperrors.NewForbiddenError("access denied")
}
