package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const usage = `uso: migrate [-database URL] <comando> [arg]

comandos:
  up            aplica todas las migraciones pendientes
  down          revierte todas las migraciones
  steps N       aplica N pasos (negativo revierte)
  version       muestra la versión actual
  force V       fija la versión V sin ejecutar SQL
`

func main() {
	databaseURL := flag.String("database", "", "connection string; por defecto la de la configuración")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	url := *databaseURL
	if url == "" {
		url = cfg.DB.ConnectionString()
	}
	m, err := postgres.NewMigrator(url, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar migrador")
		}
	}()

	if err := run(m, flag.Args()); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("migración fallida")
		os.Exit(1)
	}
}

func run(m *postgres.Migrator, args []string) error {
	intArg := func() (int, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%s requiere un argumento numérico", args[0])
		}
		return strconv.Atoi(args[1])
	}

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg()
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg()
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	}
	return fmt.Errorf("comando desconocido %q", args[0])
}
