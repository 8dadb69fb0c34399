package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrQRConflict         = errors.New("ya existe un envío activo con ese código QR")
	ErrSupplierExists     = errors.New("el proveedor ya está registrado")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrSyncUnavailable    = errors.New("espejo de sincronización no disponible")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrTokenExpired       = errors.New("token de sesión expirado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
