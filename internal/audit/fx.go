package audit

import (
	"github.com/saralbooks/saralbooks/internal/audit/repository"
	"github.com/saralbooks/saralbooks/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
