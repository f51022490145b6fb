package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusfm/songday/internal/model"
)

// is returned when username/password don't match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// uses bcrypt to hash a plaintext password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckPassword(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// retrieves *model.AdminAccount from Gin context (after JWTMiddleware has run).
func GetCurrentAdmin(c *gin.Context) (*model.AdminAccount, bool) {
	v, exists := c.Get("currentAdmin")
	if !exists {
		return nil, false
	}
	admin, ok := v.(*model.AdminAccount)
	return admin, ok
}
