package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

const minPasswordLen = 6

// UserUseCase administración de operadores.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// NormalizeUsername minúsculas y sin espacios en blanco.
func NormalizeUsername(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// CreateSystemUser crea una cuenta privilegiada. El resultado siempre describe el desenlace;
// err además permite al caller mapear el tipo de fallo.
func (uc *UserUseCase) CreateSystemUser(ctx context.Context, in dto.CreateUserRequest) (dto.CreateUserResult, error) {
	username := NormalizeUsername(in.Username)
	role := entity.NormalizeRole(in.Role)

	var err error
	switch {
	case username == "":
		err = domain.NewValidationError("username", "requerido")
	case len(in.Password) < minPasswordLen:
		err = domain.NewValidationError("password", "mínimo 6 caracteres")
	case !entity.ValidRole(role):
		err = domain.NewValidationError("role", "rol inválido: "+role)
	}
	if err != nil {
		return failed(err), err
	}

	existing, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return failed(err), err
	}
	if existing != nil {
		return failed(domain.ErrUsernameExists), domain.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return failed(err), err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return failed(err), err
	}
	return dto.CreateUserResult{Success: true, User: toUserResponse(user)}, nil
}

// List lista los operadores.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// Delete elimina un operador. Las cuentas SUPER_ADMIN no se eliminan.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if !entity.ValidID(id) {
		return domain.ErrUserNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func failed(err error) dto.CreateUserResult {
	msg := err.Error()
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		msg = ve.Message
	}
	return dto.CreateUserResult{Success: false, Error: msg}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
