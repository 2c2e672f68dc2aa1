package migrations

import (
	"github.com/NeuralTrust/MetaGuard/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260301_add_removed_fields_index",
		Name: "Index removed metadata fields for history views",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_metadata_fields_removed
				ON public.metadata_fields (analysis_id) WHERE removed;
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS public.idx_metadata_fields_removed;`).Error
		},
	})
}
