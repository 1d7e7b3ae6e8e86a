package product

import (
	"database/sql"

	"go.uber.org/zap"

	categoryrepo "omegashop/internal/category/repository"
	"omegashop/internal/identifier"
	"omegashop/internal/product/controller"
	"omegashop/internal/product/repository"
	"omegashop/internal/product/service"
)

type Module struct {
	Service    *service.ProductService
	Controller *controller.ProductController
}

// NewModule wires the product stack and registers the slug and SKU
// uniqueness probes with the identifier registry.
func NewModule(db *sql.DB, registry *identifier.Registry, generator *identifier.Generator, logger *zap.Logger) *Module {
	repo := repository.NewMySQLProductRepository(db)
	categoryRepo := categoryrepo.NewMySQLCategoryRepository(db)

	registry.Register(service.SlugDomain, repo.SlugExists)
	registry.Register(service.SKUDomain, repo.SKUExists)

	svc := service.NewProductService(repo, categoryRepo, generator, logger)

	return &Module{
		Service:    svc,
		Controller: controller.NewProductController(svc, logger),
	}
}
