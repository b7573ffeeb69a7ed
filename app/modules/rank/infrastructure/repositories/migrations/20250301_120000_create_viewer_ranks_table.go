package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating viewer_ranks table...")
			if _, err := db.NewCreateTable().Model((*rankdb.ViewerRank)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_viewer_ranks_display_name ON viewer_ranks (display_name)").Exec(ctx); err != nil {
				return err
			}
			fmt.Println("viewer_ranks table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping viewer_ranks table...")
			if _, err := db.NewDropTable().Model((*rankdb.ViewerRank)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("viewer_ranks table dropped successfully!")
			return nil
		},
	)
}
