package resort

import (
	"github.com/dkugroup/resortops/internal/resort/domain"
	"github.com/dkugroup/resortops/internal/resort/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resort.service",
	fx.Provide(service.NewService),
	// The invoicing engine only needs the lookup surface.
	fx.Provide(func(svc domain.Service) domain.Directory { return svc }),
)
