package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conferencia-nfe/internal/application/dto"
	apphttp "github.com/jhoicas/conferencia-nfe/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/conferencia-nfe/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "conferencia-nfe-test"
	testExpMin    = 60
)

func bearer(t *testing.T, secret, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Sin JWT_SECRET: /api abierta
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinSecretoNoExigeToken(t *testing.T) {
	store := newMemStore()
	app := buildApp(store, "", 0)

	body, ct := multipartBody(t, []upload{{"xlsx", "precios.csv", []byte(priceCSV)}}, nil)
	resp := send(t, app, http.MethodPut, "/api/tabla-precios", body, ct, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "importar no exige rol sin autenticación")
	resp.Body.Close()
	require.NotNil(t, store.summary)
	assert.Empty(t, store.summary.ImportedBy, "sin token no hay usuario")

	body, ct = multipartBody(t, []upload{{"xml", "nota.xml", nfeXML("7891234567890", "20.00")}}, nil)
	resp = send(t, app, http.MethodPost, "/api/comparar", body, ct, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Con JWT_SECRET: PUT /api/tabla-precios solo admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_ImportarTablaRechazos(t *testing.T) {
	cases := []struct {
		name   string
		auth   func(t *testing.T) string
		status int
		code   string
	}{
		{"sin token", func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secreto", func(t *testing.T) string { return bearer(t, "otro-secreto", apphttp.RoleAdmin, testExpMin) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", func(t *testing.T) string { return bearer(t, testJWTSecret, apphttp.RoleAdmin, -5) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token sin rol", func(t *testing.T) string { return bearer(t, testJWTSecret, "", testExpMin) }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"operador", func(t *testing.T) string { return bearer(t, testJWTSecret, "operador", testExpMin) }, http.StatusForbidden, "FORBIDDEN"},
		{"auditor", func(t *testing.T) string { return bearer(t, testJWTSecret, "auditor", testExpMin) }, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			app := buildApp(store, testJWTSecret, 0)

			body, ct := multipartBody(t, []upload{{"xlsx", "precios.csv", []byte(priceCSV)}}, nil)
			resp := send(t, app, http.MethodPut, "/api/tabla-precios", body, ct, tc.auth(t))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
			assert.Nil(t, store.summary, "la tabla no se reemplaza")
		})
	}
}

func TestAuth_AdminImportaTabla(t *testing.T) {
	store := newMemStore()
	app := buildApp(store, testJWTSecret, 0)

	body, ct := multipartBody(t, []upload{{"xlsx", "precios.csv", []byte(priceCSV)}}, nil)
	resp := send(t, app, http.MethodPut, "/api/tabla-precios", body, ct, bearer(t, testJWTSecret, apphttp.RoleAdmin, testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, store.summary)
	assert.Equal(t, testUserID, store.summary.ImportedBy, "queda registrado quién importó")
}

// ──────────────────────────────────────────────────────────────────────────────
// Con JWT_SECRET: el resto de /api acepta cualquier rol
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_OperadorComparaYVeSuHistorial(t *testing.T) {
	store := newMemStore()
	app := buildApp(store, testJWTSecret, 0)
	auth := bearer(t, testJWTSecret, "operador", testExpMin)

	body, ct := multipartBody(t, []upload{
		{"xml", "nota.xml", nfeXML("7891234567890", "20.00")},
		{"xlsx", "precios.csv", []byte(priceCSV)},
	}, nil)
	resp := send(t, app, http.MethodPost, "/api/comparar", body, ct, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/comparaciones", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el historial también exige token")
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/comparaciones", nil, "", auth)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ComparisonListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, testUserID, list.Runs[0].UserID, "la corrida guarda el usuario del token")
}

func TestAuth_HealthSinToken(t *testing.T) {
	app := buildApp(nil, testJWTSecret, 0)
	resp := send(t, app, http.MethodGet, "/health", nil, "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health queda fuera de /api")
}
