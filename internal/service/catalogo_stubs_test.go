package service_test

import (
	"context"

	"bogogo/internal/model"
	"bogogo/internal/repository"
	"bogogo/internal/session"

	"gorm.io/gorm"
)

type stubMultimediaRepo struct {
	imagenes  map[string]*model.Multimedia
	createErr error
	borradas  []string
}

func newStubMultimediaRepo(imagenes ...*model.Multimedia) *stubMultimediaRepo {
	r := &stubMultimediaRepo{imagenes: make(map[string]*model.Multimedia)}
	for _, m := range imagenes {
		r.imagenes[m.ID] = m
	}
	return r
}

func (r *stubMultimediaRepo) CreateBatch(_ context.Context, imagenes []model.Multimedia) error {
	if r.createErr != nil {
		return r.createErr
	}
	for i := range imagenes {
		m := imagenes[i]
		r.imagenes[m.ID] = &m
	}
	return nil
}

func (r *stubMultimediaRepo) FindByID(_ context.Context, id string) (*model.Multimedia, error) {
	m, ok := r.imagenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMultimediaRepo) CountByProducto(_ context.Context, productoID string) (int64, error) {
	var n int64
	for _, m := range r.imagenes {
		if m.ProductoID == productoID {
			n++
		}
	}
	return n, nil
}

func (r *stubMultimediaRepo) Delete(_ context.Context, id string) error {
	delete(r.imagenes, id)
	r.borradas = append(r.borradas, id)
	return nil
}

var _ repository.MultimediaRepository = (*stubMultimediaRepo)(nil)

type stubCategoriaRepo struct {
	categorias []model.Categoria
	listados   int
}

func (r *stubCategoriaRepo) Listar(context.Context) ([]model.Categoria, error) {
	r.listados++
	return r.categorias, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id int) (*model.Categoria, error) {
	for i := range r.categorias {
		if r.categorias[i].ID == id {
			c := r.categorias[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Asegurar(_ context.Context, c *model.Categoria) error {
	for _, e := range r.categorias {
		if e.Nombre == c.Nombre {
			c.ID = e.ID
			return nil
		}
	}
	c.ID = len(r.categorias) + 1
	r.categorias = append(r.categorias, *c)
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

type stubCalificacionRepo struct {
	guardadas []model.Calificacion
	err       error
}

func (r *stubCalificacionRepo) Create(_ context.Context, c *model.Calificacion) error {
	if r.err != nil {
		return r.err
	}
	c.ID = len(r.guardadas) + 1
	r.guardadas = append(r.guardadas, *c)
	return nil
}

var _ repository.CalificacionRepository = (*stubCalificacionRepo)(nil)

// stubVerificador answers from the user repo, like the session resolver does.
type stubVerificador struct {
	usuarios *stubUsuarioRepo
	forzar   *session.PerfilEstado
}

func (v *stubVerificador) CheckProfileCompletion(ctx context.Context, identidadID string) session.PerfilEstado {
	if v.forzar != nil {
		return *v.forzar
	}
	ok, err := v.usuarios.ExistePorUUID(ctx, identidadID)
	switch {
	case err != nil:
		return session.PerfilDesconocido
	case ok:
		return session.PerfilCompleto
	default:
		return session.PerfilIncompleto
	}
}

func (v *stubVerificador) FetchRole(ctx context.Context, identidadID string) model.Rol {
	rolID, err := v.usuarios.RolPorUUID(ctx, identidadID)
	if err != nil {
		return model.RolComprador
	}
	return model.RolDesdeID(rolID)
}
