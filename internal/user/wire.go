package user

import (
	"database/sql"

	"go.uber.org/zap"

	"omegashop/internal/user/controller"
	"omegashop/internal/user/repository"
	"omegashop/internal/user/service"
)

type Module struct {
	Service    *service.UserService
	Controller *controller.UserController
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLUserRepository(db)
	svc := service.NewUserService(repo, logger)

	return &Module{
		Service:    svc,
		Controller: controller.NewUserController(svc, logger),
	}
}
