package postgres

import (
	"context"

	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Room{},
		&domain.Participant{},
		&domain.CatalogPlayer{},
		&domain.AuctionState{},
		&domain.BidRecord{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Room:          NewRoomRepository(db),
		Participant:   NewParticipantRepository(db),
		CatalogPlayer: NewCatalogPlayerRepository(db),
		AuctionState:  NewAuctionStateRepository(db),
		BidRecord:     NewBidRecordRepository(db),
		Tx:            &txRunner{db: db},
	}
}

// txRunner wraps gorm's transaction support so multi-row auction transitions
// commit or roll back as a unit.
type txRunner struct {
	db *gorm.DB
}

func (t *txRunner) Run(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
