package domain

import "errors"

// Error kinds surfaced by the service layer. Handlers map these to HTTP
// statuses with errors.Is; the wrapped message is the user-facing text.
var (
	ErrInvalidInput       = errors.New("datos inválidos")
	ErrUsernameTaken      = errors.New("el username ya está en uso")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInternal           = errors.New("error interno del servidor")
	ErrBackend            = errors.New("error de conexión con la base de datos")
)
