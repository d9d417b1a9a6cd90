package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrMalformedDocument     = errors.New("documento NF-e malformado")
	ErrMissingRequiredColumn = errors.New("columna obligatoria no encontrada en la tabla de precios")
	ErrEmptyPriceTable       = errors.New("la tabla de precios debe tener encabezado y al menos una fila")
	ErrStorageUnavailable    = errors.New("almacenamiento no configurado")
)
