package repository

import (
	"context"
	"errors"

	"bogogo/internal/model"

	"gorm.io/gorm"
)

// UsuarioRepository reads and writes the local profile rows ("user").
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id int) (*model.Usuario, error)
	FindByUUID(ctx context.Context, identidadID string) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)

	// RolPorUUID returns role_id for the identity; nil when the column is null.
	RolPorUUID(ctx context.Context, identidadID string) (*int, error)
	// ExistePorUUID reports whether a profile row exists for the identity.
	ExistePorUUID(ctx context.Context, identidadID string) (bool, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id int) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) FindByUUID(ctx context.Context, identidadID string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("uuid = ?", identidadID).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) RolPorUUID(ctx context.Context, identidadID string) (*int, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Select("role_id").Where("uuid = ?", identidadID).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u.RolID, nil
}

func (r *usuarioRepo) ExistePorUUID(ctx context.Context, identidadID string) (bool, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Select("id").Where("uuid = ?", identidadID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
