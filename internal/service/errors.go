package service

import (
	"errors"
	"fmt"
)

// ReglaNegocio es un error de precondición de negocio: la petición es
// válida sintácticamente pero el estado actual no permite la operación.
// Los handlers lo traducen a 400; cualquier otro error no sentinela se
// trata como fallo interno.
type ReglaNegocio struct{ msg string }

func (e *ReglaNegocio) Error() string { return e.msg }

func reglaf(format string, args ...interface{}) error {
	return &ReglaNegocio{msg: fmt.Sprintf(format, args...)}
}

// EsReglaNegocio reporta si err (o alguno de sus envueltos) es una regla
// de negocio incumplida.
func EsReglaNegocio(err error) bool {
	var rn *ReglaNegocio
	return errors.As(err, &rn)
}
