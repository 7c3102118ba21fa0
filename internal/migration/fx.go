package migration

import (
	"database/sql"

	"github.com/dkugroup/resortops/internal/config"
	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, sqlDB *sql.DB, cfg config.Config) error {
		if !cfg.MigrateOnStart {
			return nil
		}

		// The versioned SQL migrations target Postgres. Other dialects
		// (sqlite, used for local scratch databases) get the schema from
		// the models directly.
		if conn.Dialector.Name() != "postgres" {
			return AutoMigrate(conn)
		}
		return RunMigrations(sqlDB)
	}),
)

// AutoMigrate creates the schema from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&resortdomain.Resort{},
		&sharingdomain.ProfitSharingConfig{},
		&revenuedomain.RevenueRecord{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLineItem{},
	)
}
