package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"clearwater/contexts/moderation-safety/activity-service/domain/entities"
)

type activityModel struct {
	ID        string `gorm:"primaryKey"`
	ActorID   string `gorm:"not null;index"`
	ActorName string `gorm:"not null"`
	AvatarRef string
	Action    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (activityModel) TableName() string { return "activity_entries" }

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the activity_entries table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&activityModel{})
}

func (r *Repository) Append(ctx context.Context, entry entities.ActivityEntry) error {
	row := activityModel{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		ActorName: entry.ActorName,
		AvatarRef: entry.AvatarRef,
		Action:    entry.Action,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Replayed side-channel event: keep the first write.
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]entities.ActivityEntry, error) {
	var rows []activityModel
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.ActivityEntry{
			ID:        row.ID,
			ActorID:   row.ActorID,
			ActorName: row.ActorName,
			AvatarRef: row.AvatarRef,
			Action:    row.Action,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
