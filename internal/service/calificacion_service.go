package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bogogo/internal/dto"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCalificacionEnCurso  = errors.New("Ya se está guardando tu calificación")
	ErrVendedorNoEncontrado = errors.New("Vendedor no encontrado")
)

const calificacionGuardTTL = 10 * time.Second

// CalificacionService records a customer's rating of a vendor.
type CalificacionService interface {
	Crear(ctx context.Context, identidadID string, req dto.CrearCalificacionRequest) (*dto.CalificacionResponse, error)
}

type calificacionService struct {
	repo     repository.CalificacionRepository
	usuarios repository.UsuarioRepository
	guard    repository.Guard
	now      func() time.Time
}

func NewCalificacionService(repo repository.CalificacionRepository, usuarios repository.UsuarioRepository, guard repository.Guard) CalificacionService {
	return &calificacionService{repo: repo, usuarios: usuarios, guard: guard, now: time.Now}
}

func (s *calificacionService) Crear(ctx context.Context, identidadID string, req dto.CrearCalificacionRequest) (*dto.CalificacionResponse, error) {
	cliente, err := s.usuarios.FindByUUID(ctx, identidadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPerfilIncompleto
		}
		return nil, err
	}

	vendedor, err := s.usuarios.FindByID(ctx, req.VendedorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendedorNoEncontrado
		}
		return nil, err
	}
	if model.RolDesdeID(vendedor.RolID) != model.RolVendedor {
		return nil, ErrVendedorNoEncontrado
	}

	key := fmt.Sprintf("calificacion:%d:%d", cliente.ID, vendedor.ID)
	ok, err := s.guard.Acquire(ctx, key, calificacionGuardTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCalificacionEnCurso
	}
	defer func() { _ = s.guard.Release(context.WithoutCancel(ctx), key) }()

	c := &model.Calificacion{
		ClienteID:  cliente.ID,
		VendedorID: vendedor.ID,
		Valor:      strconv.Itoa(req.Valor),
		Fecha:      s.now().Format("2006-01-02"),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CalificacionResponse{
		ID:         c.ID,
		VendedorID: c.VendedorID,
		Valor:      req.Valor,
		Fecha:      c.Fecha,
	}, nil
}
