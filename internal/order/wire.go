package order

import (
	"database/sql"

	"go.uber.org/zap"

	"omegashop/internal/infrastructure/metrics"
	"omegashop/internal/order/controller"
	orderrepo "omegashop/internal/order/repository"
	"omegashop/internal/order/service"
	productrepo "omegashop/internal/product/repository"
	userrepo "omegashop/internal/user/repository"
)

type Module struct {
	Service    *service.OrderService
	Controller *controller.OrderController
}

func NewModule(db *sql.DB, logger *zap.Logger, m *metrics.Metrics) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)
	userRepo := userrepo.NewMySQLUserRepository(db)

	svc := service.NewOrderService(userRepo, productRepo, orderRepo, logger, m)

	return &Module{
		Service:    svc,
		Controller: controller.NewOrderController(svc, logger),
	}
}
