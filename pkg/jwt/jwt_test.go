package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/moda-retail/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	sub := pkgjwt.Subject{UserID: "u-1", CompanyID: "c-1", StoreID: "s-1", Role: "employee"}
	tok, err := pkgjwt.Generate(secret, sub, "moda-retail-test", 5)
	require.NoError(t, err)

	got, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Subject{UserID: "u-1"}, "x", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := pkgjwt.Generate(secret, pkgjwt.Subject{UserID: "u-1"}, "x", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, expired)
	assert.Error(t, err, "token vencido")

	_, err = pkgjwt.Generate("", pkgjwt.Subject{}, "x", 5)
	assert.Error(t, err)
}
