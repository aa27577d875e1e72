// seed_admin crea la primera cuenta SUPER_ADMIN del sistema de conteo.
//
// Uso: go run ./cmd/seed_admin -username admin -password <clave>
// También lee SEED_ADMIN_USERNAME y SEED_ADMIN_PASSWORD. Usa la misma configuración de base de datos que la API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/usecase"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockcount-api/pkg/config"
)

func main() {
	username := flag.String("username", os.Getenv("SEED_ADMIN_USERNAME"), "usuario administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "clave (mínimo 6 caracteres)")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "uso: seed_admin -username <usuario> -password <clave>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Aplicar esquema: %v\n", err)
		os.Exit(1)
	}

	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	res, err := uc.CreateSystemUser(ctx, dto.CreateUserRequest{
		Username: *username,
		Password: *password,
		Role:     entity.RoleSuperAdmin,
	})
	if errors.Is(err, domain.ErrUsernameExists) {
		fmt.Printf("El usuario %q ya existe; no se modifica.\n", usecase.NormalizeUsername(*username))
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear usuario: %s\n", res.Error)
		os.Exit(1)
	}
	fmt.Printf("SUPER_ADMIN %q creado (id %s).\n", res.User.Username, res.User.ID)
}
