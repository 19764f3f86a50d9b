package storage

import (
	"context"

	"gorm.io/gorm"

	"eyewear-tracker-go/internal/domain/wearlog"
	"eyewear-tracker-go/internal/domain/wearlog/repository"
	"eyewear-tracker-go/internal/platform/errors"
)

type usageLogRepository struct {
	db *gorm.DB
}

// NewUsageLogRepository creates the SQLite-backed wear log repository.
func NewUsageLogRepository(db *gorm.DB) repository.LogRepository {
	return &usageLogRepository{
		db: db,
	}
}

// Upsert replaces any existing (token, date) row inside a transaction. A
// delete-then-create keeps the operation idempotent under the unique index.
func (r *usageLogRepository) Upsert(ctx context.Context, entry *wearlog.Entry) (*wearlog.Entry, error) {
	model := r.toModel(entry)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND date = ?", entry.Token, entry.Date).
			Delete(&UsageLog{}).Error; err != nil {
			return err
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.upsert", "failed to save log", err)
	}
	return r.fromModel(model), nil
}

func (r *usageLogRepository) ListByToken(ctx context.Context, token string) ([]wearlog.Entry, error) {
	var models []UsageLog
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Order("date DESC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.list", "failed to fetch logs", err)
	}
	return r.fromModels(models), nil
}

func (r *usageLogRepository) Latest(ctx context.Context, token string) (*wearlog.Entry, error) {
	var model UsageLog
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Order("date DESC").
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.latest", "failed to fetch latest log", err)
	}
	return r.fromModel(&model), nil
}

func (r *usageLogRepository) ListRange(ctx context.Context, token, from, to string) ([]wearlog.Entry, error) {
	var models []UsageLog
	if err := r.db.WithContext(ctx).
		Where("token = ? AND date >= ? AND date < ?", token, from, to).
		Order("date ASC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.list_range", "failed to fetch monthly logs", err)
	}
	return r.fromModels(models), nil
}

func (r *usageLogRepository) Delete(ctx context.Context, token, date string) (*wearlog.Entry, error) {
	var model UsageLog
	err := r.db.WithContext(ctx).
		Where("token = ? AND date = ?", token, date).
		First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.delete", "failed to find log", err)
	}

	if err := r.db.WithContext(ctx).Delete(&model).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "usagelog.delete", "failed to delete log", err)
	}
	return r.fromModel(&model), nil
}

func (r *usageLogRepository) DecrementLensDaysAfter(ctx context.Context, token, date string) error {
	// Floored at zero: rows already at zero are left untouched.
	if err := r.db.WithContext(ctx).
		Model(&UsageLog{}).
		Where("token = ? AND date > ? AND lens_usage_days > 0", token, date).
		Update("lens_usage_days", gorm.Expr("lens_usage_days - 1")).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "usagelog.decrement", "failed to adjust lens usage days", err)
	}
	return nil
}

func (r *usageLogRepository) ClearAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&UsageLog{})
	if result.Error != nil {
		return 0, errors.Wrap(errors.KindStorage, "usagelog.clear_all", "failed to clear logs", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *usageLogRepository) toModel(entry *wearlog.Entry) *UsageLog {
	return &UsageLog{
		Token:                   entry.Token,
		Date:                    entry.Date,
		WearType:                string(entry.WearType),
		LensUsageDays:           entry.LensUsageDays,
		LastLensReplacementDate: entry.LastLensReplacementDate,
	}
}

func (r *usageLogRepository) fromModel(model *UsageLog) *wearlog.Entry {
	return &wearlog.Entry{
		Token:                   model.Token,
		Date:                    model.Date,
		WearType:                wearlog.WearType(model.WearType),
		LensUsageDays:           model.LensUsageDays,
		LastLensReplacementDate: model.LastLensReplacementDate,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}
}

func (r *usageLogRepository) fromModels(models []UsageLog) []wearlog.Entry {
	entries := make([]wearlog.Entry, len(models))
	for i := range models {
		entries[i] = *r.fromModel(&models[i])
	}
	return entries
}
