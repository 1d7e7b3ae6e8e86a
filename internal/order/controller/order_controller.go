package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/auth"
	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
	"omegashop/internal/order/service"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, customerID int, items []service.OrderItemInput) (*domain.OrderWithItems, error)
	GetOrderByID(ctx context.Context, id uint, requester domain.AuthUser) (*domain.OrderWithItems, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int, requester domain.AuthUser) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) (*domain.Order, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int `json:"productId"`
	Qty       int `json:"qty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ID        uint  `json:"id"`
	ProductID int   `json:"productId"`
	Qty       int   `json:"qty"`
	Total     int64 `json:"total"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	Amount     int64               `json:"amount"`
	Status     string              `json:"status"`
	CustomerID int                 `json:"customerId"`
	VendorIDs  []int               `json:"vendorIds"`
	Items      []OrderItemResponse `json:"items,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCreateOrderRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		httpapi.WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{ProductID: item.ProductID, Qty: item.Qty}
	}

	order, err := c.useCase.CreateOrder(r.Context(), user.ID, items)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, toOrderResponse(&order.Order, order.Items))
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		httpapi.WriteValidationError(w, logger, traceID, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return
	}

	order, err := c.useCase.GetOrderByID(r.Context(), orderID, *user)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toOrderResponse(&order.Order, order.Items))
}

// ListOrders returns every order in the system, newest first. The route is
// admin-guarded.
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.useCase.ListAll(r.Context())
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	writeOrderList(w, logger, orders)
}

// ListCustomerOrders returns one customer's orders, newest first. Admins may
// name any customer; everyone else only themselves.
func (c *OrderController) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	customerID, err := strconv.Atoi(chi.URLParam(r, "customerId"))
	if err != nil || customerID <= 0 {
		httpapi.WriteValidationError(w, logger, traceID, "invalid customerId", apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "customerId must be a positive integer",
		})
		return
	}

	orders, err := c.useCase.ListCustomerOrders(r.Context(), customerID, *user)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	writeOrderList(w, logger, orders)
}

func writeOrderList(w http.ResponseWriter, logger *zap.Logger, orders []domain.Order) {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = toOrderResponse(&orders[i], nil)
	}
	httpapi.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{"orders": responses})
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := parseOrderID(r)
	if err != nil {
		httpapi.WriteValidationError(w, logger, traceID, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.useCase.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toOrderResponse(order, nil))
}

func parseOrderID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("orderId must be a positive integer")
	}
	return uint(id), nil
}

func validateCreateOrderRequest(req CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	for idx, item := range req.Items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "each productId must be a positive integer",
			})
		}
		if item.Qty <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].qty",
				Message: "qty must be a positive integer",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func toOrderResponse(order *domain.Order, items []domain.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID,
		Amount:     order.Amount,
		Status:     string(order.Status),
		CustomerID: order.CustomerID,
		VendorIDs:  order.VendorIDs,
		CreatedAt:  order.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Total:     item.Total,
		})
	}
	return resp
}
