package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the row shape of the kv_snapshots table.
type Snapshot struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Snapshot) TableName() string { return "kv_snapshots" }

// GormStore keeps snapshots in a SQL table through GORM.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	return &GormStore{db: db, now: time.Now}, nil
}

func (s *GormStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	var row Snapshot
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if err := decode(key, []byte(row.Payload), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, value any) error {
	payload, err := encode(key, value)
	if err != nil {
		return err
	}
	row := Snapshot{Key: key, Payload: string(payload), UpdatedAt: s.now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Snapshot{}).Error; err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}
