package chat

import (
	"database/sql"

	"go.uber.org/zap"

	"omegashop/internal/chat/controller"
	"omegashop/internal/chat/repository"
	"omegashop/internal/chat/service"
	"omegashop/internal/events"
	"omegashop/internal/infrastructure/metrics"
	userrepo "omegashop/internal/user/repository"
)

type Module struct {
	Service    *service.ChatService
	Controller *controller.ChatController
}

func NewModule(db *sql.DB, publisher events.Publisher, topic string, logger *zap.Logger, m *metrics.Metrics) *Module {
	repo := repository.NewMySQLChatRepository(db)
	userRepo := userrepo.NewMySQLUserRepository(db)

	svc := service.NewChatService(repo, userRepo, publisher, topic, logger, m)

	return &Module{
		Service:    svc,
		Controller: controller.NewChatController(svc, logger),
	}
}
