package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubIdentidades struct {
	repository.IdentidadRepository
	porEmail map[string]*model.Identidad
	findErr  error
}

func (s *stubIdentidades) FindByEmail(_ context.Context, email string) (*model.Identidad, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	i, ok := s.porEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (s *stubIdentidades) Create(_ context.Context, i *model.Identidad) error {
	s.porEmail[i.Email] = i
	return nil
}

type stubUsuarios struct {
	repository.UsuarioRepository
	creados []*model.Usuario
}

func (s *stubUsuarios) Create(_ context.Context, u *model.Usuario) error {
	u.ID = len(s.creados) + 1
	s.creados = append(s.creados, u)
	return nil
}

func TestHash_ImprimeHashVerificable(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash", "secreto1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secreto1")))
}

func TestRegistrarAdmin_CreaIdentidadConfirmadaYUsuario(t *testing.T) {
	ids := &stubIdentidades{porEmail: map[string]*model.Identidad{}}
	us := &stubUsuarios{}

	u, err := registrarAdmin(context.Background(), ids, us, datosAdmin{
		email: " Admin@Bogogo.test ", password: "secreto1", nombre: " Ana ", apellido: "Gómez",
	})

	require.NoError(t, err)
	ident := ids.porEmail["admin@bogogo.test"]
	require.NotNil(t, ident)
	assert.True(t, ident.EmailConfirmado)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte("secreto1")))

	assert.Equal(t, ident.ID, u.UUID)
	assert.Equal(t, "Ana", u.Nombre)
	require.NotNil(t, u.RolID)
	assert.Equal(t, int(model.RolAdministrador), *u.RolID)
}

func TestRegistrarAdmin_EmailExistente(t *testing.T) {
	ids := &stubIdentidades{porEmail: map[string]*model.Identidad{"ana@bogogo.test": {ID: "x"}}}
	us := &stubUsuarios{}

	_, err := registrarAdmin(context.Background(), ids, us, datosAdmin{email: "ana@bogogo.test", password: "secreto1", nombre: "A", apellido: "B"})

	assert.ErrorContains(t, err, "ya existe")
	assert.Empty(t, us.creados)
}

func TestRegistrarAdmin_ErrorDeLecturaNoCrea(t *testing.T) {
	ids := &stubIdentidades{porEmail: map[string]*model.Identidad{}, findErr: errors.New("db caida")}
	us := &stubUsuarios{}

	_, err := registrarAdmin(context.Background(), ids, us, datosAdmin{email: "ana@bogogo.test", password: "secreto1", nombre: "A", apellido: "B"})

	assert.Error(t, err)
	assert.Empty(t, ids.porEmail)
	assert.Empty(t, us.creados)
}

func TestDatosAdmin_Validar(t *testing.T) {
	base := datosAdmin{email: "ana@bogogo.test", password: "secreto1", nombre: "Ana", apellido: "Gómez"}
	assert.NoError(t, base.validar())

	casos := map[string]func(d *datosAdmin){
		"email invalido":    func(d *datosAdmin) { d.email = "no-es-email" },
		"password corta":    func(d *datosAdmin) { d.password = "123" },
		"nombre en blanco":  func(d *datosAdmin) { d.nombre = "  " },
		"apellido faltante": func(d *datosAdmin) { d.apellido = "" },
	}
	for nombre, mutar := range casos {
		t.Run(nombre, func(t *testing.T) {
			d := base
			mutar(&d)
			assert.Error(t, d.validar())
		})
	}
}
