package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"bogogo/internal/identity"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type datosAdmin struct {
	email    string
	password string
	nombre   string
	apellido string
	celular  string
}

var admin datosAdmin

var crearAdminCmd = &cobra.Command{
	Use:   "crear-admin",
	Short: "Crea una identidad confirmada con perfil de administrador",
	Long: `Crea la identidad (email confirmado) y su fila de usuario con rol
administrador en una sola transacción. Falla si el email ya existe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := admin.validar(); err != nil {
			return err
		}
		_, db, err := conectarDB()
		if err != nil {
			return err
		}
		var u *model.Usuario
		err = db.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
			var txErr error
			u, txErr = registrarAdmin(cmd.Context(), repository.NewIdentidadRepository(tx), repository.NewUsuarioRepository(tx), admin)
			return txErr
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Administrador %s creado (usuario %d, identidad %s)\n", u.Email, u.ID, u.UUID)
		return nil
	},
}

func init() {
	f := crearAdminCmd.Flags()
	f.StringVar(&admin.email, "email", "", "email de acceso")
	f.StringVar(&admin.password, "password", "", "contraseña (mínimo 6 caracteres)")
	f.StringVar(&admin.nombre, "nombre", "", "nombre")
	f.StringVar(&admin.apellido, "apellido", "", "apellido")
	f.StringVar(&admin.celular, "celular", "", "celular")
	_ = crearAdminCmd.MarkFlagRequired("email")
	_ = crearAdminCmd.MarkFlagRequired("password")
	_ = crearAdminCmd.MarkFlagRequired("nombre")
	_ = crearAdminCmd.MarkFlagRequired("apellido")
	rootCmd.AddCommand(crearAdminCmd)
}

func (d datosAdmin) validar() error {
	if _, err := mail.ParseAddress(d.email); err != nil {
		return fmt.Errorf("email invalido: %q", d.email)
	}
	if len(d.password) < 6 {
		return errors.New("la contraseña debe tener al menos 6 caracteres")
	}
	if strings.TrimSpace(d.nombre) == "" || strings.TrimSpace(d.apellido) == "" {
		return errors.New("nombre y apellido son obligatorios")
	}
	return nil
}

func registrarAdmin(ctx context.Context, identidades repository.IdentidadRepository, usuarios repository.UsuarioRepository, d datosAdmin) (*model.Usuario, error) {
	email := strings.ToLower(strings.TrimSpace(d.email))
	if _, err := identidades.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("ya existe una identidad con el email %s", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscando identidad: %w", err)
	}

	hash, err := identity.HashPassword(d.password)
	if err != nil {
		return nil, err
	}
	ident := &model.Identidad{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(d.nombre),
		LastName:        strings.TrimSpace(d.apellido),
		EmailConfirmado: true,
	}
	if err := identidades.Create(ctx, ident); err != nil {
		return nil, fmt.Errorf("creando identidad: %w", err)
	}

	rol := int(model.RolAdministrador)
	u := &model.Usuario{
		UUID:     ident.ID,
		Nombre:   ident.FirstName,
		Apellido: ident.LastName,
		Email:    email,
		Celular:  d.celular,
		RolID:    &rol,
	}
	if err := usuarios.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creando usuario: %w", err)
	}
	return u, nil
}
