package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/myglobyx/globyx-api/internal/bootstrap"
	"github.com/myglobyx/globyx-api/internal/config"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/security/password"
	"github.com/myglobyx/globyx-api/internal/server"
	"github.com/myglobyx/globyx-api/internal/store"
)

func main() {
	// .env es opcional (dev); en prod todo viene del entorno real.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "globyx",
		Short: "API de identidad y catálogo de MyGlobyX",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración (opcional)")

	loadAll := func() (*config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
		return cfg, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levantar el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAll()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return server.Run(cmd.Context(), cfg)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Sembrar cuentas admin de la allow-list (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAll()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			st, err := store.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			// El seed manual no depende del flag de auto-seed
			cfg.Seed.AutoSeedAdmin = true
			return bootstrap.EnsureAdminSeed(cmd.Context(), cfg, st, password.New(cfg.Auth.BCryptCost))
		},
	}

	var adminName, adminEmail, adminPassword string
	adminCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear o actualizar una cuenta admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminEmail == "" || adminPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			cfg, err := loadAll()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			st, err := store.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			u, err := bootstrap.CreateAdmin(cmd.Context(), st, password.New(cfg.Auth.BCryptCost), adminName, adminEmail, adminPassword)
			if err != nil {
				return err
			}
			if !cfg.IsAdminEmail(u.Email) {
				fmt.Printf("aviso: %s no está en ADMIN_EMAILS, agregalo para que tenga acceso admin\n", u.Email)
			}
			fmt.Printf("ok: %s\n", u.Email)
			return nil
		},
	}
	adminCreateCmd.Flags().StringVar(&adminName, "name", "Admin GlobyX", "Nombre de la cuenta")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Email de la cuenta (requerido)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password en claro (requerido)")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones sobre cuentas admin",
	}
	adminCmd.AddCommand(adminCreateCmd)

	root.AddCommand(serveCmd, seedCmd, adminCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
