package postgres

// WrapErr expone wrapErr a los tests del paquete externo.
var WrapErr = wrapErr
