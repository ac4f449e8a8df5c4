package repository

import (
	"context"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

// IdentidadRepository persists identity-provider records.
type IdentidadRepository interface {
	Create(ctx context.Context, i *model.Identidad) error
	FindByID(ctx context.Context, id string) (*model.Identidad, error)
	FindByEmail(ctx context.Context, email string) (*model.Identidad, error)
	FindByConfirmationToken(ctx context.Context, token string) (*model.Identidad, error)
	Update(ctx context.Context, i *model.Identidad) error
}

type identidadRepo struct{ db *gorm.DB }

func NewIdentidadRepository(db *gorm.DB) IdentidadRepository { return &identidadRepo{db: db} }

func (r *identidadRepo) Create(ctx context.Context, i *model.Identidad) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *identidadRepo) FindByID(ctx context.Context, id string) (*model.Identidad, error) {
	var i model.Identidad
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error
	return &i, err
}

func (r *identidadRepo) FindByEmail(ctx context.Context, email string) (*model.Identidad, error) {
	var i model.Identidad
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&i).Error
	return &i, err
}

func (r *identidadRepo) FindByConfirmationToken(ctx context.Context, token string) (*model.Identidad, error) {
	var i model.Identidad
	err := r.db.WithContext(ctx).Where("confirmation_token = ?", token).First(&i).Error
	return &i, err
}

func (r *identidadRepo) Update(ctx context.Context, i *model.Identidad) error {
	return r.db.WithContext(ctx).Save(i).Error
}
