package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_estimates",
		SQL: `CREATE TABLE IF NOT EXISTS estimates (
  id                 UUID             PRIMARY KEY,
  drawing_key        TEXT             NOT NULL DEFAULT '',
  drawing_filename   TEXT             NOT NULL DEFAULT '',
  drawing_format     TEXT             NOT NULL DEFAULT '',
  detected_area_m2   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (detected_area_m2 >= 0),
  diagnostic         TEXT             NOT NULL DEFAULT '',
  exterior_area_m2   DOUBLE PRECISION NOT NULL CHECK (exterior_area_m2 >= 0),
  exterior_material  TEXT             NOT NULL,
  interior_area_m2   DOUBLE PRECISION NOT NULL CHECK (interior_area_m2 >= 0),
  interior_material  TEXT             NOT NULL,
  drawer_count       INTEGER          NOT NULL CHECK (drawer_count >= 0),
  exterior_cost      DOUBLE PRECISION NOT NULL,
  interior_cost      DOUBLE PRECISION NOT NULL,
  drawers_cost       DOUBLE PRECISION NOT NULL,
  total_cost         DOUBLE PRECISION NOT NULL,
  manual_cost        DOUBLE PRECISION NOT NULL DEFAULT 0,
  commission_percent DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (commission_percent BETWEEN 0 AND 100),
  commission_amount  DOUBLE PRECISION NOT NULL DEFAULT 0,
  final_cost         DOUBLE PRECISION NOT NULL,
  created_at         TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_estimates_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_estimates_created_at ON estimates (created_at);`,
	},
	{
		Name: "create_index_estimates_drawing_format",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_estimates_drawing_format ON estimates (drawing_format);`,
	},
}

// EnsureMigrated checks if the 'estimates' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.Named("database").With(zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.estimates') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Duration("duration_ms", time.Since(start)),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Duration("duration_ms", time.Since(start)),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration_ms", time.Since(start)),
				zap.Duration("step_duration_ms", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration_ms", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
