package sharing

import (
	"github.com/dkugroup/resortops/internal/sharing/repository"
	"github.com/dkugroup/resortops/internal/sharing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sharing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(service.NewResolver),
)
