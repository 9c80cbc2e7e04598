// seed_master crea la cuenta del operador de plataforma (rol master) si aún no existe.
//
// Uso: go run ./cmd/seed_master -email root@empresa.co -password '...' [-name "Operador"]
// También lee SEED_MASTER_EMAIL, SEED_MASTER_PASSWORD y SEED_MASTER_NAME.
// Aplica las migraciones antes de escribir.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Workforce-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Workforce-api/pkg/config"
)

func main() {
	in := masterInput{}
	flag.StringVar(&in.Email, "email", os.Getenv("SEED_MASTER_EMAIL"), "email del operador")
	flag.StringVar(&in.Password, "password", os.Getenv("SEED_MASTER_PASSWORD"), "contraseña (mín. 8)")
	flag.StringVar(&in.Name, "name", envOr("SEED_MASTER_NAME", "Operador de plataforma"), "nombre visible")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	users := postgres.NewUserRepository(pool, cfg.DB.QueryTimeout())
	u, created, err := seedMaster(ctx, users, in, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	if !created {
		fmt.Printf("El operador %s ya existe (id %s); sin cambios.\n", *u.Email, u.ID)
		return
	}
	fmt.Printf("Operador master creado: %s (id %s)\n", *u.Email, u.ID)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
