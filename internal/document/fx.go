package document

import (
	"github.com/saralbooks/saralbooks/internal/document/repository"
	"github.com/saralbooks/saralbooks/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
