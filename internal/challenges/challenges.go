// Package challenges keeps the relational side-table for challenge
// completions and its leaderboard.
package challenges

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Completion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID string    `gorm:"index;uniqueIndex:idx_challenge_actor" json:"challengeId"`
	UserName    string    `gorm:"uniqueIndex:idx_challenge_actor" json:"userName"`
	DeviceID    string    `gorm:"uniqueIndex:idx_challenge_actor" json:"deviceId"`
	CompletedAt time.Time `json:"completedAt"`
}

type LeaderboardRow struct {
	UserName       string `json:"userName"`
	DeviceID       string `json:"deviceId"`
	CompletedCount int    `json:"completedCount"`
}

type Service struct {
	db *gorm.DB
}

func Open(dsn string) (*Service, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Completion{}); err != nil {
		return nil, err
	}
	return &Service{db: db}, nil
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Completions lists a guest's completed challenges, oldest first. The
// result is always non-nil so callers serialize an empty list as [].
func (s *Service) Completions(ctx context.Context, userName, deviceID string) ([]Completion, error) {
	rows := []Completion{}
	err := s.db.WithContext(ctx).
		Where("user_name = ? AND device_id = ?", userName, deviceID).
		Order("completed_at ASC").
		Find(&rows).Error
	return rows, err
}

// Toggle flips the existence of one completion row and reports the new
// state.
func (s *Service) Toggle(ctx context.Context, challengeID, userName, deviceID string) (completed bool, err error) {
	var existing Completion
	err = s.db.WithContext(ctx).
		Where("challenge_id = ? AND user_name = ? AND device_id = ?", challengeID, userName, deviceID).
		First(&existing).Error
	switch {
	case err == nil:
		return false, s.db.WithContext(ctx).Delete(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := Completion{
			ChallengeID: challengeID,
			UserName:    userName,
			DeviceID:    deviceID,
			CompletedAt: time.Now().UTC(),
		}
		return true, s.db.WithContext(ctx).Create(&row).Error
	default:
		return false, err
	}
}

func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	rows := []LeaderboardRow{}
	err := s.db.WithContext(ctx).
		Model(&Completion{}).
		Select("user_name, device_id, COUNT(*) AS completed_count").
		Group("user_name, device_id").
		Order("completed_count DESC").
		Scan(&rows).Error
	return rows, err
}
