package customer

import (
	"github.com/saralbooks/saralbooks/internal/customer/repository"
	"github.com/saralbooks/saralbooks/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
