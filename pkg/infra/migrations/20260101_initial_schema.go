package migrations

import (
	"github.com/NeuralTrust/MetaGuard/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260101_initial_schema",
		Name: "Create users, policies, file analyses and metadata fields",

		Up: func(db *gorm.DB) error {
			statements := []string{
				`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
				`CREATE TABLE IF NOT EXISTS public.users (
					id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					email          TEXT NOT NULL UNIQUE,
					name           TEXT NOT NULL DEFAULT '',
					password_hash  TEXT NOT NULL DEFAULT '',
					google_subject TEXT UNIQUE,
					created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);`,
				`CREATE TABLE IF NOT EXISTS public.user_metadata_policies (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id         UUID NOT NULL UNIQUE REFERENCES public.users(id) ON DELETE CASCADE,
					remove_location BOOLEAN NOT NULL DEFAULT TRUE,
					remove_device   BOOLEAN NOT NULL DEFAULT TRUE,
					remove_software BOOLEAN NOT NULL DEFAULT FALSE,
					remove_personal BOOLEAN NOT NULL DEFAULT TRUE,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);`,
				`CREATE TABLE IF NOT EXISTS public.file_analyses (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id       UUID NOT NULL REFERENCES public.users(id) ON DELETE CASCADE,
					file_name     TEXT NOT NULL,
					file_type     TEXT NOT NULL DEFAULT 'unknown',
					file_size     BIGINT NOT NULL DEFAULT 0,
					sha256_before VARCHAR(64) NOT NULL,
					sha256_after  VARCHAR(64),
					metadata_raw  JSONB NOT NULL DEFAULT '[]'::jsonb,
					removed_tags  TEXT[] DEFAULT '{}',
					risk_level    TEXT NOT NULL DEFAULT 'Low',
					risk_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
					scanned_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					cleaned_at    TIMESTAMPTZ,
					updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);`,
				`CREATE INDEX IF NOT EXISTS idx_file_analyses_user_scanned
					ON public.file_analyses (user_id, scanned_at DESC);`,
				`CREATE TABLE IF NOT EXISTS public.metadata_fields (
					id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					analysis_id UUID NOT NULL REFERENCES public.file_analyses(id) ON DELETE CASCADE,
					tag         TEXT NOT NULL,
					value       TEXT NOT NULL DEFAULT '',
					category    TEXT NOT NULL,
					risk_level  TEXT NOT NULL,
					removed     BOOLEAN NOT NULL DEFAULT FALSE
				);`,
				`CREATE INDEX IF NOT EXISTS idx_metadata_fields_analysis_category
					ON public.metadata_fields (analysis_id, category);`,
			}
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`
				DROP TABLE IF EXISTS public.metadata_fields;
				DROP TABLE IF EXISTS public.file_analyses;
				DROP TABLE IF EXISTS public.user_metadata_policies;
				DROP TABLE IF EXISTS public.users;
			`).Error
		},
	})
}
