package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	domainerrors "clearwater/contexts/moderation-safety/moderation-log-service/domain/errors"
)

type logModel struct {
	ID                int64 `gorm:"primaryKey;autoIncrement"`
	AuthorID          *string
	AuthorName        *string
	TargetID          *string
	TargetName        string `gorm:"not null;index"`
	ActionKind        string `gorm:"not null"`
	Reason            string
	PriorOffenseCount int
	CreatedAt         time.Time `gorm:"not null;index"`
	Pinned            bool      `gorm:"not null"`
	Completed         bool      `gorm:"not null"`
	CompletedBy       *string
	CompletedByID     *string
	CompletedAt       *time.Time
}

func (logModel) TableName() string { return "moderation_logs" }

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

// Migrate creates the moderation_logs table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&logModel{})
}

// Insert writes the entry and counts qualifying entries for its target in
// one transaction. A per-target advisory lock serializes concurrent
// creations for the same target, so each creation observes a distinct
// count and a threshold crossing triggers at most one escalation.
func (r *Repository) Insert(ctx context.Context, entry entities.LogEntry, now time.Time) (entities.LogEntry, int, error) {
	row := logModelFromEntity(entry)
	row.CreatedAt = now.UTC()

	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(lower(?)))",
			entry.TargetName,
		).Error; err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&logModel{}).
			Where("lower(target_name) = lower(?)", entry.TargetName).
			Where("author_id IS NOT NULL").
			Count(&count).
			Error
	})
	if err != nil {
		return entities.LogEntry{}, 0, err
	}
	return row.toEntity(), int(count), nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]entities.LogEntry, error) {
	var rows []logModel
	tx := r.db.WithContext(ctx).
		Order("pinned DESC").
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.LogEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Complete locks the row, so two racing completions serialize and the
// loser sees the already-converted entry as an invalid transition.
func (r *Repository) Complete(ctx context.Context, id int64, completedBy string, completedByID string, now time.Time) (entities.LogEntry, error) {
	var row logModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrEntryNotFound
			}
			return err
		}
		if row.ActionKind != entities.ActionActiveBanBolo {
			return domainerrors.ErrInvalidTransition
		}

		completedAt := now.UTC()
		row.ActionKind = entities.ActionBan
		row.Completed = true
		row.Pinned = false
		row.CompletedBy = nullableString(completedBy)
		row.CompletedByID = nullableString(completedByID)
		row.CompletedAt = &completedAt
		return tx.Save(&row).Error
	})
	if err != nil {
		return entities.LogEntry{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&logModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotFound
	}
	return nil
}

func logModelFromEntity(entry entities.LogEntry) logModel {
	return logModel{
		AuthorID:          nullableString(entry.AuthorID),
		AuthorName:        nullableString(entry.AuthorName),
		TargetID:          nullableString(entry.TargetID),
		TargetName:        strings.TrimSpace(entry.TargetName),
		ActionKind:        entry.ActionKind,
		Reason:            entry.Reason,
		PriorOffenseCount: entry.PriorOffenseCount,
		Pinned:            entry.Pinned,
		Completed:         entry.Completed,
		CompletedBy:       nullableString(entry.CompletedBy),
		CompletedByID:     nullableString(entry.CompletedByID),
		CompletedAt:       entry.CompletedAt,
	}
}

func (m logModel) toEntity() entities.LogEntry {
	return entities.LogEntry{
		ID:                m.ID,
		AuthorID:          stringValue(m.AuthorID),
		AuthorName:        stringValue(m.AuthorName),
		TargetID:          stringValue(m.TargetID),
		TargetName:        m.TargetName,
		ActionKind:        m.ActionKind,
		Reason:            m.Reason,
		PriorOffenseCount: m.PriorOffenseCount,
		CreatedAt:         m.CreatedAt,
		Pinned:            m.Pinned,
		Completed:         m.Completed,
		CompletedBy:       stringValue(m.CompletedBy),
		CompletedByID:     stringValue(m.CompletedByID),
		CompletedAt:       m.CompletedAt,
	}
}

func nullableString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
