package invoice

import (
	"github.com/saralbooks/saralbooks/internal/invoice/repository"
	"github.com/saralbooks/saralbooks/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
