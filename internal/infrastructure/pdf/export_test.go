package pdf

// FormatMoney expone formatMoney a los tests del paquete externo.
var FormatMoney = formatMoney
