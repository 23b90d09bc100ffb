package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/moda-retail/internal/domain"
)

// MinPasswordLength longitud mínima aceptada al crear usuarios.
const MinPasswordLength = 8

// HashPassword valida y hashea una contraseña con bcrypt.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compara la contraseña con el hash guardado.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
