package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/domain"
)

// readUpload carga en memoria un archivo del formulario multipart.
func readUpload(fh *multipart.FileHeader) (comparison.File, error) {
	f, err := fh.Open()
	if err != nil {
		return comparison.File{}, fmt.Errorf("%w: abrir %s: %v", domain.ErrInvalidInput, fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return comparison.File{}, fmt.Errorf("%w: leer %s: %v", domain.ErrInvalidInput, fh.Filename, err)
	}
	return comparison.File{Name: fh.Filename, Data: data}, nil
}

// formFiles devuelve los archivos del primer campo presente entre names.
func formFiles(form *multipart.Form, names ...string) []*multipart.FileHeader {
	for _, n := range names {
		if files := form.File[n]; len(files) > 0 {
			return files
		}
	}
	return nil
}
