package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
)

// JWTCustomClaims содержит пользовательские поля токена преподавателя
type JWTCustomClaims struct {
	TeacherID uint   `json:"teacher_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService отвечает за выдачу и проверку токенов доступа
type JWTService struct {
	secretKey     []byte
	expirationHrs int
	signingMethod jwt.SigningMethod
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secretKey string, expirationHrs int) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secretKey:     []byte(secretKey),
		expirationHrs: expirationHrs,
		signingMethod: jwt.SigningMethodHS256,
	}, nil
}

// GenerateToken выдает токен доступа для преподавателя
func (s *JWTService) GenerateToken(teacherID uint, email string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		TeacherID: teacherID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expirationHrs) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken проверяет токен и возвращает его claims.
// Просроченный или некорректный токен дает ErrUnauthorized.
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
