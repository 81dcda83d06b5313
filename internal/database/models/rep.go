// Package models implements the database operations for the reputation
// ledger.
package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/karmahq/repbot/internal/database/dbretry"
	"github.com/karmahq/repbot/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles database operations for reputation records. It is
// the only component that mutates user reputation and channel activity rows;
// everything else goes through its query methods.
type ReputationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReputation creates a new reputation model instance.
func NewReputation(db *bun.DB, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		db:     db,
		logger: logger.Named("db_reputation"),
	}
}

// Grant adds one reputation point from giverID to userID in the given
// channel, updating the user record and the mirrored channel record in a
// single transaction. Rows are locked before the read-modify-write so
// concurrent grants to the same user or channel serialize instead of losing
// updates; retryable failures replay the whole transaction.
func (m *ReputationModel) Grant(
	ctx context.Context, guildID, userID, channelID uint64, channelName string, giverID uint64,
) error {
	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		userRec, err := lockUserReputation(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}

		userRec.ApplyGrant(channelID, channelName, giverID)

		if _, err := tx.NewUpdate().Model(userRec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update user reputation: %w", err)
		}

		channelRec, err := lockChannelActivity(ctx, tx, guildID, channelID)
		if err != nil {
			return err
		}

		channelRec.ApplyGrant(userID, channelName)

		if _, err := tx.NewUpdate().Model(channelRec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update channel activity: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Granted reputation point",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.Uint64("channelID", channelID),
		zap.Uint64("giverID", giverID))

	return nil
}

// Revoke removes one reputation point from userID, scoped to a channel when
// channelID is non-zero. It reports whether a point was actually removed:
// a missing record, a zero count, or a channel without recorded points all
// leave state untouched. A channel-less revoke decrements the global count
// only and leaves channel breakdowns alone.
func (m *ReputationModel) Revoke(
	ctx context.Context, guildID, userID, channelID uint64,
) (bool, error) {
	var applied bool

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		applied = false

		userRec := new(types.UserReputation)

		err := tx.NewSelect().
			Model(userRec).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}

			return fmt.Errorf("failed to select user reputation: %w", err)
		}

		if !userRec.ApplyRevoke(channelID) {
			return nil
		}

		if _, err := tx.NewUpdate().Model(userRec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update user reputation: %w", err)
		}

		// Mirror the decrement into the channel record when it exists and
		// has points recorded for this user.
		if channelID != 0 {
			channelRec := new(types.ChannelActivity)

			err := tx.NewSelect().
				Model(channelRec).
				Where("guild_id = ? AND channel_id = ?", guildID, channelID).
				For("UPDATE").
				Scan(ctx)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to select channel activity: %w", err)
			}

			if err == nil && channelRec.ApplyRevoke(userID) {
				if _, err := tx.NewUpdate().Model(channelRec).WherePK().Exec(ctx); err != nil {
					return fmt.Errorf("failed to update channel activity: %w", err)
				}
			}
		}

		applied = true

		return nil
	})
	if err != nil {
		return false, err
	}

	m.logger.Debug("Revoked reputation point",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.Uint64("channelID", channelID),
		zap.Bool("applied", applied))

	return applied, nil
}

// GetProfile retrieves a user's reputation record, returning a zero-valued
// record rather than an error when none exists yet.
func (m *ReputationModel) GetProfile(
	ctx context.Context, guildID, userID uint64,
) (*types.UserReputation, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.UserReputation, error) {
		record := new(types.UserReputation)

		err := m.db.NewSelect().
			Model(record).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &types.UserReputation{GuildID: guildID, UserID: userID}, nil
			}

			return nil, fmt.Errorf("failed to get user reputation: %w", err)
		}

		return record, nil
	})
}

// GetGlobalLeaderboard retrieves the guild's top recipients ordered by count
// descending with user ID ascending as the deterministic tie-break.
func (m *ReputationModel) GetGlobalLeaderboard(
	ctx context.Context, guildID uint64, limit int,
) ([]types.LeaderboardEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]types.LeaderboardEntry, error) {
		var records []*types.UserReputation

		err := m.db.NewSelect().
			Model(&records).
			Column("user_id", "count").
			Where("guild_id = ?", guildID).
			OrderExpr("count DESC, user_id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get global leaderboard: %w", err)
		}

		entries := make([]types.LeaderboardEntry, 0, len(records))
		for _, record := range records {
			entries = append(entries, types.LeaderboardEntry{
				UserID: record.UserID,
				Count:  record.Count,
			})
		}

		return entries, nil
	})
}

// GetChannelActivity retrieves a single channel's activity record, or nil
// when the channel has never seen a grant.
func (m *ReputationModel) GetChannelActivity(
	ctx context.Context, guildID, channelID uint64,
) (*types.ChannelActivity, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ChannelActivity, error) {
		record := new(types.ChannelActivity)

		err := m.db.NewSelect().
			Model(record).
			Where("guild_id = ? AND channel_id = ?", guildID, channelID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get channel activity: %w", err)
		}

		return record, nil
	})
}

// GetChannelLeaderboard retrieves the guild's channels ordered by total
// received points descending with channel ID ascending as the tie-break.
func (m *ReputationModel) GetChannelLeaderboard(
	ctx context.Context, guildID uint64, limit int,
) ([]*types.ChannelActivity, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ChannelActivity, error) {
		var records []*types.ChannelActivity

		err := m.db.NewSelect().
			Model(&records).
			Where("guild_id = ?", guildID).
			OrderExpr("total_reps DESC, channel_id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get channel leaderboard: %w", err)
		}

		return records, nil
	})
}

// lockUserReputation fetches the user row with a row lock, creating a blank
// record first so the first grant and later grants share one code path.
func lockUserReputation(
	ctx context.Context, tx bun.Tx, guildID, userID uint64,
) (*types.UserReputation, error) {
	blank := &types.UserReputation{GuildID: guildID, UserID: userID}

	_, err := tx.NewInsert().
		Model(blank).
		On("CONFLICT (guild_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user reputation row: %w", err)
	}

	record := new(types.UserReputation)

	err = tx.NewSelect().
		Model(record).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user reputation row: %w", err)
	}

	return record, nil
}

// lockChannelActivity is the channel-side counterpart of lockUserReputation.
func lockChannelActivity(
	ctx context.Context, tx bun.Tx, guildID, channelID uint64,
) (*types.ChannelActivity, error) {
	blank := &types.ChannelActivity{GuildID: guildID, ChannelID: channelID}

	_, err := tx.NewInsert().
		Model(blank).
		On("CONFLICT (guild_id, channel_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure channel activity row: %w", err)
	}

	record := new(types.ChannelActivity)

	err = tx.NewSelect().
		Model(record).
		Where("guild_id = ? AND channel_id = ?", guildID, channelID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock channel activity row: %w", err)
	}

	return record, nil
}
