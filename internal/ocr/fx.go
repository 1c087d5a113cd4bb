package ocr

import (
	"github.com/saralbooks/saralbooks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("ocr",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Client {
	return NewHTTPClient(cfg.OCRServiceURL, cfg.OCRTimeout, log)
}
