package vendor

import (
	"database/sql"

	"go.uber.org/zap"

	"omegashop/internal/identifier"
	"omegashop/internal/vendors/controller"
	"omegashop/internal/vendors/repository"
	"omegashop/internal/vendors/service"
)

type Module struct {
	Service    *service.VendorService
	Controller *controller.VendorController
}

func NewModule(db *sql.DB, registry *identifier.Registry, generator *identifier.Generator, logger *zap.Logger) *Module {
	repo := repository.NewMySQLVendorRepository(db)

	registry.Register(service.SlugDomain, repo.SlugExists)

	svc := service.NewVendorService(repo, generator, logger)

	return &Module{
		Service:    svc,
		Controller: controller.NewVendorController(svc, logger),
	}
}
