package nfe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

func TestValidateAccessKey(t *testing.T) {
	assert.NoError(t, nfe.ValidateAccessKey("35230901234567000190550010000012341000123468"))
	assert.NoError(t, nfe.ValidateAccessKey("NFe35230901234567000190550010000012341000123476"))
	// resto < 2 ⇒ dígito 0
	assert.NoError(t, nfe.ValidateAccessKey("35230901234567000190550010000012341000123450"))
}

func TestValidateAccessKey_Errores(t *testing.T) {
	assert.Error(t, nfe.ValidateAccessKey("35230901234567000190550010000012341000123469"), "dígito verificador incorrecto")
	assert.Error(t, nfe.ValidateAccessKey("3523090123"), "longitud incorrecta")
	assert.Error(t, nfe.ValidateAccessKey(""), "vacía")
}
