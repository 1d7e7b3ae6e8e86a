package category

import (
	"database/sql"

	"go.uber.org/zap"

	"omegashop/internal/category/controller"
	"omegashop/internal/category/repository"
	"omegashop/internal/category/service"
	"omegashop/internal/identifier"
	productrepo "omegashop/internal/product/repository"
)

type Module struct {
	Service    *service.CategoryService
	Controller *controller.CategoryController
}

func NewModule(db *sql.DB, registry *identifier.Registry, generator *identifier.Generator, logger *zap.Logger) *Module {
	repo := repository.NewMySQLCategoryRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)

	registry.Register(service.SlugDomain, repo.SlugExists)

	svc := service.NewCategoryService(repo, productRepo, generator, logger)

	return &Module{
		Service:    svc,
		Controller: controller.NewCategoryController(svc, logger),
	}
}
