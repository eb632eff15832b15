package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("no encontrado")
	ErrInvalidInput        = errors.New("datos inválidos")
	ErrInvalidPotentialKey = errors.New("clave de potencial inválida")
	ErrBandNotOnRoute      = errors.New("el tramo de precio no pertenece a la ruta resuelta")
	ErrNoActivePrice       = errors.New("no hay precio activo para la combinación")
)

// DataFetchError envuelve cualquier falla del Store. No se reintenta ni se oculta.
type DataFetchError struct {
	Op  string
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// FetchErr envuelve err en un DataFetchError salvo que sea nil o ErrNotFound.
func FetchErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var dfe *DataFetchError
	if errors.As(err, &dfe) {
		return err
	}
	return &DataFetchError{Op: op, Err: err}
}
