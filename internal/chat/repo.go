package chat

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) InsertTurn(ctx context.Context, t *Turn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ListTurns returns the user's full transcript in conversation order.
func (r *Repo) ListTurns(ctx context.Context, userID uint64) ([]Turn, error) {
	turns := []Turn{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// ClearTurns empties the transcript. One statement, so the "replace the
// owned sequence and persist" step cannot half-apply.
func (r *Repo) ClearTurns(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Turn{}).Error
}
