package product

import (
	"github.com/saralbooks/saralbooks/internal/product/repository"
	"github.com/saralbooks/saralbooks/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
