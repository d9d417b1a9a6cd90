package nfe

import "fmt"

// AccessKeyLength longitud de la chave de acesso de la NF-e.
const AccessKeyLength = 44

// ValidateAccessKey valida la chave de acesso (44 dígitos) con su dígito verificador módulo 11.
// Acepta la clave con prefijo "NFe" (atributo Id de infNFe) o con separadores.
func ValidateAccessKey(key string) error {
	digits := OnlyDigits(key)
	if len(digits) != AccessKeyLength {
		return fmt.Errorf("nfe: la chave de acesso debe tener %d dígitos, se encontraron %d", AccessKeyLength, len(digits))
	}
	expected := accessKeyCheckDigit(digits[:AccessKeyLength-1])
	if digits[AccessKeyLength-1] != expected {
		return fmt.Errorf("nfe: dígito verificador de la chave inválido: esperado %c, recibido %c", expected, digits[AccessKeyLength-1])
	}
	return nil
}

// accessKeyCheckDigit pesos 2..9 de derecha a izquierda; restos 0 y 1 dan dígito 0.
func accessKeyCheckDigit(base string) byte {
	sum, weight := 0, 2
	for i := len(base) - 1; i >= 0; i-- {
		sum += int(base[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + (11 - rem))
}
