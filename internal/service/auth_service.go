package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/souloukn/geomatiqueupm/internal/domain/entity"
	"github.com/souloukn/geomatiqueupm/internal/domain/repository"
	apperrors "github.com/souloukn/geomatiqueupm/internal/pkg/errors"
	"github.com/souloukn/geomatiqueupm/pkg/auth"
)

// Параметры кодов сброса пароля
const (
	resetCodeLength = 6
	resetCodeTTL    = 15 * time.Minute
)

// AuthService управляет учетными записями преподавателей:
// регистрация по коду разработчика, вход, сброс пароля.
type AuthService struct {
	teacherRepo   repository.TeacherRepository
	cacheRepo     repository.CacheRepository
	jwtService    *auth.JWTService
	emailService  EmailService
	developerCode string
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	teacherRepo repository.TeacherRepository,
	cacheRepo repository.CacheRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
	developerCode string,
) *AuthService {
	return &AuthService{
		teacherRepo:   teacherRepo,
		cacheRepo:     cacheRepo,
		jwtService:    jwtService,
		emailService:  emailService,
		developerCode: developerCode,
	}
}

// Register создает учетную запись преподавателя.
// Регистрация закрыта кодом разработчика: без него аккаунт не создается.
func (s *AuthService) Register(name, email, password, developerCode string) (*entity.Teacher, error) {
	if s.developerCode == "" || developerCode != s.developerCode {
		return nil, fmt.Errorf("%w: invalid developer code", apperrors.ErrForbidden)
	}

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	teacher := &entity.Teacher{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.teacherRepo.Create(teacher); err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Преподаватель %s зарегистрирован (id=%d)", email, teacher.ID)
	return teacher, nil
}

// Login проверяет учетные данные и выдает токен доступа
func (s *AuthService) Login(email, password string) (string, *entity.Teacher, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	teacher, err := s.teacherRepo.GetByEmail(email)
	if err != nil {
		// Не раскрываем, существует ли email
		return "", nil, apperrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(teacher.ID, teacher.Email)
	if err != nil {
		return "", nil, err
	}

	log.Printf("[AuthService] Преподаватель %s вошел в систему", email)
	return token, teacher, nil
}

// VerifyToken проверяет токен доступа и возвращает преподавателя
func (s *AuthService) VerifyToken(tokenString string) (*entity.Teacher, error) {
	claims, err := s.jwtService.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.teacherRepo.GetByID(claims.TeacherID)
}

// RequestPasswordReset генерирует код сброса и отправляет его на email.
// Для неизвестного email возвращается nil: отсутствие аккаунта не раскрывается.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	teacher, err := s.teacherRepo.GetByEmail(email)
	if err != nil {
		log.Printf("[AuthService] Запрос сброса пароля для неизвестного email %s", email)
		return nil
	}

	code, err := randomDigits(resetCodeLength)
	if err != nil {
		return err
	}

	if err := s.cacheRepo.Set(resetCodeKey(email), code, resetCodeTTL); err != nil {
		return err
	}

	idempotencyKey := fmt.Sprintf("pwreset-%d-%d", teacher.ID, time.Now().Unix())
	if err := s.emailService.SendPasswordResetCode(ctx, email, code, idempotencyKey); err != nil {
		return err
	}

	log.Printf("[AuthService] Код сброса пароля отправлен на %s", email)
	return nil
}

// ResetPassword проверяет код сброса и устанавливает новый пароль
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	stored, err := s.cacheRepo.Get(resetCodeKey(email))
	if err != nil || stored != code {
		return fmt.Errorf("%w: invalid or expired reset code", apperrors.ErrUnauthorized)
	}

	teacher, err := s.teacherRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.teacherRepo.UpdatePassword(teacher.ID, string(hash)); err != nil {
		return err
	}

	// Код одноразовый
	if err := s.cacheRepo.Delete(resetCodeKey(email)); err != nil {
		log.Printf("[AuthService] Ошибка удаления кода сброса для %s: %v", email, err)
	}

	log.Printf("[AuthService] Пароль преподавателя %s обновлен", email)
	return nil
}

func resetCodeKey(email string) string {
	return "teacher:pwreset:" + email
}

// randomDigits генерирует криптографически случайный цифровой код
func randomDigits(length int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
