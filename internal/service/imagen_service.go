package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bogogo/internal/dto"
	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MaxImagenBytes is the upload limit per image.
const MaxImagenBytes = 5 << 20

var (
	ErrSinImagenes        = errors.New("Selecciona al menos una imagen")
	ErrNoEsImagen         = errors.New("Solo se permiten archivos de imagen")
	ErrImagenMuyGrande    = errors.New("La imagen es demasiado grande. Máximo 5MB")
	ErrImagenNoEncontrada = errors.New("Imagen no encontrada")
)

// ArchivoImagen is one uploaded file. Alt may be empty.
type ArchivoImagen struct {
	Nombre    string
	Alt       string
	Contenido io.Reader
}

// ImagenService uploads product images to the bucket and records them as
// multimedia rows of the vendor's own products.
type ImagenService interface {
	Subir(ctx context.Context, vendedorID int, productoID string, archivos []ArchivoImagen) ([]dto.ImagenResponse, error)
	Eliminar(ctx context.Context, vendedorID int, productoID, imagenID string) error
}

type imagenService struct {
	productos  repository.ProductoRepository
	multimedia repository.MultimediaRepository
	storage    infra.Storage
	cache      repository.CatalogoCache
}

func NewImagenService(
	productos repository.ProductoRepository,
	multimedia repository.MultimediaRepository,
	storage infra.Storage,
	cache repository.CatalogoCache,
) ImagenService {
	return &imagenService{productos: productos, multimedia: multimedia, storage: storage, cache: cache}
}

type imagenLeida struct {
	datos []byte
	ext   string
	alt   string
}

// Subir validates every file before uploading any. Objects are named
// {productId}_{uuid}.{ext}; alt defaults to "Imagen N del producto".
func (s *imagenService) Subir(ctx context.Context, vendedorID int, productoID string, archivos []ArchivoImagen) ([]dto.ImagenResponse, error) {
	if len(archivos) == 0 {
		return nil, ErrSinImagenes
	}
	if _, err := productoPropio(ctx, s.productos, vendedorID, productoID); err != nil {
		return nil, err
	}

	leidas := make([]imagenLeida, 0, len(archivos))
	for _, a := range archivos {
		im, err := leerImagen(a)
		if err != nil {
			return nil, err
		}
		leidas = append(leidas, im)
	}

	existentes, err := s.multimedia.CountByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Multimedia, 0, len(leidas))
	subidos := make([]string, 0, len(leidas))
	for i, im := range leidas {
		objectPath := fmt.Sprintf("%s_%s%s", productoID, uuid.NewString(), im.ext)
		if err := s.storage.Upload(ctx, objectPath, bytes.NewReader(im.datos)); err != nil {
			s.limpiar(ctx, subidos)
			return nil, fmt.Errorf("subiendo imagen: %w", err)
		}
		subidos = append(subidos, objectPath)

		alt := im.alt
		if alt == "" {
			alt = fmt.Sprintf("Imagen %d del producto", int(existentes)+i+1)
		}
		rows = append(rows, model.Multimedia{
			ID:         uuid.NewString(),
			Alt:        alt,
			Src:        s.storage.PublicURL(objectPath),
			ProductoID: productoID,
		})
	}

	if err := s.multimedia.CreateBatch(ctx, rows); err != nil {
		s.limpiar(ctx, subidos)
		return nil, err
	}
	s.invalidar(ctx)

	out := make([]dto.ImagenResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ImagenResponse{ID: m.ID, Alt: m.Alt, Src: m.Src})
	}
	return out, nil
}

// Eliminar removes the bucket object first and the row after. A failed
// object removal is logged and does not block the row deletion.
func (s *imagenService) Eliminar(ctx context.Context, vendedorID int, productoID, imagenID string) error {
	if _, err := productoPropio(ctx, s.productos, vendedorID, productoID); err != nil {
		return err
	}
	img, err := s.multimedia.FindByID(ctx, imagenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImagenNoEncontrada
		}
		return err
	}
	if img.ProductoID != productoID {
		return ErrImagenNoEncontrada
	}

	if op, ok := s.storage.ObjectPath(img.Src); ok {
		if err := s.storage.Remove(ctx, op); err != nil {
			log.Warn().Err(err).Str("image_id", imagenID).Msg("imagen: error eliminando del bucket")
		}
	}
	if err := s.multimedia.Delete(ctx, imagenID); err != nil {
		return err
	}
	s.invalidar(ctx)
	return nil
}

func (s *imagenService) limpiar(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := s.storage.Remove(ctx, paths...); err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("imagen: no se pudieron limpiar objetos huerfanos")
	}
}

func (s *imagenService) invalidar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidar(ctx); err != nil {
		log.Warn().Err(err).Msg("imagen: no se pudo invalidar la cache del catalogo")
	}
}

func leerImagen(a ArchivoImagen) (imagenLeida, error) {
	datos, err := io.ReadAll(io.LimitReader(a.Contenido, MaxImagenBytes+1))
	if err != nil {
		return imagenLeida{}, fmt.Errorf("leyendo %s: %w", a.Nombre, err)
	}
	if len(datos) > MaxImagenBytes {
		return imagenLeida{}, fmt.Errorf("%w (%s)", ErrImagenMuyGrande, a.Nombre)
	}
	mt := mimetype.Detect(datos)
	if !strings.HasPrefix(mt.String(), "image/") {
		return imagenLeida{}, ErrNoEsImagen
	}
	return imagenLeida{datos: datos, ext: mt.Extension(), alt: strings.TrimSpace(a.Alt)}, nil
}
