package identity

import "strings"

const (
	msgCredenciales     = "Credenciales inválidas. Verifica tu email y contraseña."
	msgEmailNoConfirm   = "Por favor confirma tu email antes de iniciar sesión."
	msgYaRegistrado     = "Este email ya está registrado. Intenta iniciar sesión."
	msgErrorLogin       = "Error al iniciar sesión. Intenta de nuevo."
	msgErrorRegistro    = "Error al registrarse. Intenta de nuevo."
	msgSesionInvalida   = "Tu sesión expiró. Inicia sesión nuevamente."
	msgProveedorInvalid = "Proveedor de autenticación no soportado."
)

// MensajeLogin localizes a sign-in error by matching on its message.
func MensajeLogin(err error) string {
	return localizar(err, msgErrorLogin)
}

// MensajeRegistro localizes a sign-up error by matching on its message.
func MensajeRegistro(err error) string {
	return localizar(err, msgErrorRegistro)
}

func localizar(err error, fallback string) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return msgCredenciales
	case strings.Contains(msg, "Email not confirmed"):
		return msgEmailNoConfirm
	case strings.Contains(msg, "User already registered"):
		return msgYaRegistrado
	case strings.Contains(msg, "Invalid or expired token"):
		return msgSesionInvalida
	case strings.Contains(msg, "Unsupported OAuth provider"):
		return msgProveedorInvalid
	default:
		return fallback
	}
}
