package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating channels, viewer_sessions and channel_stats tables...")

			if _, err := db.NewCreateTable().Model((*statsdb.Channel)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*statsdb.ViewerSession)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*statsdb.ChannelStats)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_viewer_sessions_channel_viewer_date ON viewer_sessions (channel_id, viewer_id, stat_date)").Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_viewer_sessions_channel_date ON viewer_sessions (channel_id, stat_date)").Exec(ctx); err != nil {
				return err
			}
			// The upsert conflict target for stats rows.
			if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_channel_stats_key ON channel_stats (channel_id, scope, stat_date)").Exec(ctx); err != nil {
				return err
			}

			fmt.Println("Stats tables created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping stats tables...")

			if _, err := db.NewDropTable().Model((*statsdb.ChannelStats)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewDropTable().Model((*statsdb.ViewerSession)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewDropTable().Model((*statsdb.Channel)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}

			fmt.Println("Stats tables dropped successfully!")
			return nil
		},
	)
}
