package postgres

import (
	"fmt"

	"github.com/LavaJover/trust-marketplace-service/internal/config"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/logger"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&models.UserModel{},
		&models.ProjectModel{},
		&models.InvestmentModel{},
		&models.PaymentModel{},
		&models.EscrowContractModel{},
		&models.ChainCursorModel{},
		&models.ProcessedChainEventModel{},
		&models.CartItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.ProposalModel{},
		&models.VoteModel{},
		&logger.AuditRecordModel{},
	}
}

// InitDB opens the pool. When no migrations path is configured the schema is
// created with AutoMigrate.
func InitDB(cfg config.Storage) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.MigrationsPath == "" {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("failed to automigrate: %w", err)
		}
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
