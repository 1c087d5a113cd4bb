package staging

import (
	"github.com/saralbooks/saralbooks/internal/staging/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("staging",
	fx.Provide(repository.Provide),
)
