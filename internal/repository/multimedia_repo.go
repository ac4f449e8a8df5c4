package repository

import (
	"context"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

type MultimediaRepository interface {
	CreateBatch(ctx context.Context, imagenes []model.Multimedia) error
	FindByID(ctx context.Context, id string) (*model.Multimedia, error)
	CountByProducto(ctx context.Context, productoID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type multimediaRepo struct{ db *gorm.DB }

func NewMultimediaRepository(db *gorm.DB) MultimediaRepository { return &multimediaRepo{db: db} }

func (r *multimediaRepo) CreateBatch(ctx context.Context, imagenes []model.Multimedia) error {
	if len(imagenes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&imagenes).Error
}

func (r *multimediaRepo) FindByID(ctx context.Context, id string) (*model.Multimedia, error) {
	var m model.Multimedia
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *multimediaRepo) CountByProducto(ctx context.Context, productoID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Multimedia{}).Where("id_product = ?", productoID).Count(&n).Error
	return n, err
}

func (r *multimediaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Multimedia{}).Error
}
