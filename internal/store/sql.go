package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow is one serialized collection
type collectionRow struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (collectionRow) TableName() string {
	return "collections"
}

// SQLBackend stores collections as rows of a single table through GORM.
// It runs on SQLite for local installs and on PostgreSQL.
type SQLBackend struct {
	db *gorm.DB
}

var _ Backend = (*SQLBackend)(nil)

// NewSQLBackend wraps db; call AutoMigrate before first use
func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

// AutoMigrate creates the collections table
func (b *SQLBackend) AutoMigrate() error {
	return b.db.AutoMigrate(&collectionRow{})
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var row collectionRow
	err := b.db.WithContext(ctx).Where("name = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Payload), nil
}

func (b *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	row := collectionRow{Name: key, Payload: string(value), UpdatedAt: time.Now().UTC()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

func (b *SQLBackend) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	row := collectionRow{Name: key, Payload: string(value), UpdatedAt: time.Now().UTC()}
	result := b.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (b *SQLBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
