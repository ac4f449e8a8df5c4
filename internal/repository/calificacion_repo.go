package repository

import (
	"context"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

type CalificacionRepository interface {
	Create(ctx context.Context, c *model.Calificacion) error
}

type calificacionRepo struct{ db *gorm.DB }

func NewCalificacionRepository(db *gorm.DB) CalificacionRepository {
	return &calificacionRepo{db: db}
}

func (r *calificacionRepo) Create(ctx context.Context, c *model.Calificacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}
