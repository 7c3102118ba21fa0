package invoice

import (
	"github.com/dkugroup/resortops/internal/invoice/service"
	"github.com/dkugroup/resortops/internal/sharing"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	sharing.Module,
	fx.Provide(service.NewService),
)
