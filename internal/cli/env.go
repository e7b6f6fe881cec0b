package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jask/patientrecords/internal/config"
	"github.com/jask/patientrecords/internal/database"
	"github.com/jask/patientrecords/internal/database/repository"
	"github.com/jask/patientrecords/internal/logging"
	"github.com/jask/patientrecords/internal/service"
)

// env is everything a command needs once config, logging and storage are up.
type env struct {
	cfg      config.Config
	db       *sql.DB
	patients *repository.PatientRepo
	cards    *repository.CardRepo
	logs     io.Closer
}

func openEnv(opts *RootOptions) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logs, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}
	log.Info().Str("db", cfg.Database.Path).Msg("database ready")

	return &env{
		cfg:      cfg,
		db:       db,
		patients: repository.NewPatientRepo(db),
		cards:    repository.NewCardRepo(db),
		logs:     logs,
	}, nil
}

func (e *env) loader() *service.Loader {
	return &service.Loader{Patients: e.patients, Cards: e.cards}
}

func (e *env) seed(ctx context.Context) error {
	if err := database.SeedDefaults(ctx, e.db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	return nil
}

func (e *env) Close() error {
	err := e.db.Close()
	_ = e.logs.Close()
	return err
}
