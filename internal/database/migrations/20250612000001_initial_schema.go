package migrations

import (
	"context"
	"fmt"

	"github.com/karmahq/repbot/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.UserReputation)(nil),
			(*types.ChannelActivity)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		// Indexes backing the leaderboard order-by queries
		_, err := db.NewCreateIndex().
			Model((*types.UserReputation)(nil)).
			Index("idx_user_reputations_guild_count").
			Column("guild_id").
			ColumnExpr("count DESC").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create user reputation index: %w", err)
		}

		_, err = db.NewCreateIndex().
			Model((*types.ChannelActivity)(nil)).
			Index("idx_channel_activities_guild_total").
			Column("guild_id").
			ColumnExpr("total_reps DESC").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create channel activity index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.UserReputation)(nil),
			(*types.ChannelActivity)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table: %w", err)
			}
		}

		return nil
	})
}
