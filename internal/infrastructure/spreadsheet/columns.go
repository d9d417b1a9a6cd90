// Package spreadsheet lee la tabla de precios desde .xlsx o .csv.
package spreadsheet

import (
	"fmt"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
)

// Columns etiquetas de encabezado esperadas. Se comparan exactas después de recortar espacios.
type Columns struct {
	Price       string // obligatoria
	Barcode     string // obligatoria
	Description string // opcional, habilita la búsqueda por nombre
	Code        string // opcional, habilita la búsqueda por código interno
}

// DefaultColumns encabezados de la planilla de precios usada por los compradores.
func DefaultColumns() Columns {
	return Columns{
		Price:       "Preço",
		Barcode:     "Código de barras",
		Description: "Descrição Produto",
		Code:        "Código Produto",
	}
}

// MissingColumnError indica qué encabezado obligatorio falta.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %q", domain.ErrMissingRequiredColumn.Error(), e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return domain.ErrMissingRequiredColumn
}

// layout posición de cada columna en la fila; -1 si la columna opcional no existe.
type layout struct {
	price, barcode, description, code int
}

func (c Columns) locate(header []string) (layout, error) {
	l := layout{price: -1, barcode: -1, description: -1, code: -1}
	for i, h := range header {
		switch trim(h) {
		case c.Price:
			l.price = i
		case c.Barcode:
			l.barcode = i
		case c.Description:
			l.description = i
		case c.Code:
			l.code = i
		}
	}
	if l.price < 0 {
		return l, &MissingColumnError{Column: c.Price}
	}
	if l.barcode < 0 {
		return l, &MissingColumnError{Column: c.Barcode}
	}
	return l, nil
}
