package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
	"gorm.io/gorm"
)

// serviceOrderLockKey serialises order allocation across API replicas.
const serviceOrderLockKey int64 = 0x74696d656c696e65

type serviceRepository struct {
	db *gorm.DB
}

func (r *serviceRepository) List(ctx context.Context) ([]domain.Service, error) {
	var rows []serviceModel
	if err := r.db.WithContext(ctx).Order("sort_order asc, seq asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Service, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainService(row))
	}
	return out, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, serviceID uuid.UUID) (domain.Service, error) {
	var rec serviceModel
	if err := r.db.WithContext(ctx).Where("service_id = ?", serviceID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Service{}, domain.ErrNotFound
		}
		return domain.Service{}, err
	}
	return toDomainService(rec), nil
}

func (r *serviceRepository) CreateNext(ctx context.Context, params ports.CreateServiceParams) (domain.Service, error) {
	rec := serviceModel{
		ServiceID: params.ServiceID,
		Name:      params.Name,
		Emoji:     params.Emoji,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", serviceOrderLockKey).Error; err != nil {
			return err
		}
		var next int
		if err := tx.Raw("SELECT COALESCE(MAX(sort_order) + 1, 0) FROM services").Scan(&next).Error; err != nil {
			return err
		}
		rec.SortOrder = next
		return tx.Create(&rec).Error
	})
	if err != nil {
		return domain.Service{}, err
	}
	return toDomainService(rec), nil
}

func (r *serviceRepository) Update(ctx context.Context, params ports.UpdateServiceParams) (domain.Service, error) {
	res := r.db.WithContext(ctx).Model(&serviceModel{}).Where("service_id = ?", params.ServiceID).Updates(map[string]any{
		"name":       params.Name,
		"emoji":      params.Emoji,
		"updated_at": params.UpdatedAt,
	})
	if res.Error != nil {
		return domain.Service{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Service{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.ServiceID)
}

func (r *serviceRepository) Delete(ctx context.Context, serviceID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("service_id = ?", serviceID).Delete(&serviceModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
