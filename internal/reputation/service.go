// Package reputation implements the grant/revoke orchestrator, the cooldown
// and trigger components, and the leaderboard query engine on top of the
// ledger store.
package reputation

import (
	"context"
	"time"

	"github.com/karmahq/repbot/internal/database/types"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// Store is the ledger surface the orchestrator and query engine depend on.
// The database reputation model is the production implementation; tests use
// an in-memory fake.
type Store interface {
	Grant(ctx context.Context, guildID, userID, channelID uint64, channelName string, giverID uint64) error
	Revoke(ctx context.Context, guildID, userID, channelID uint64) (bool, error)
	GetProfile(ctx context.Context, guildID, userID uint64) (*types.UserReputation, error)
	GetGlobalLeaderboard(ctx context.Context, guildID uint64, limit int) ([]types.LeaderboardEntry, error)
	GetChannelActivity(ctx context.Context, guildID, channelID uint64) (*types.ChannelActivity, error)
	GetChannelLeaderboard(ctx context.Context, guildID uint64, limit int) ([]*types.ChannelActivity, error)
}

// GrantStatus classifies the outcome of a grant request.
type GrantStatus int

const (
	// GrantStatusGranted means a point was recorded.
	GrantStatusGranted GrantStatus = iota
	// GrantStatusSelfTarget rejects granting to yourself.
	GrantStatusSelfTarget
	// GrantStatusBotTarget rejects granting to bot accounts.
	GrantStatusBotTarget
	// GrantStatusOnCooldown rejects a giver whose window has not elapsed.
	GrantStatusOnCooldown
	// GrantStatusStoreFailed means the ledger could not record the point;
	// callers should suggest trying again later.
	GrantStatusStoreFailed
)

// GrantRequest carries one explicit grant from a command.
type GrantRequest struct {
	GuildID        uint64
	RecipientID    uint64
	RecipientIsBot bool
	ChannelID      uint64
	ChannelName    string
	GiverID        uint64
}

// GrantResult reports the outcome of a grant request. Remaining is set only
// when Status is GrantStatusOnCooldown.
type GrantResult struct {
	Status    GrantStatus
	Remaining time.Duration
}

// MessageMention is one user mentioned in a message.
type MessageMention struct {
	UserID uint64
	IsBot  bool
}

// MessageGrant carries the parts of an inbound message the orchestrator
// needs to decide whether it grants reputation.
type MessageGrant struct {
	GuildID     uint64
	ChannelID   uint64
	ChannelName string
	AuthorID    uint64
	AuthorIsBot bool
	Content     string
	Mentions    []MessageMention
}

// MessageOutcome reports what a message-triggered grant did. Matched is
// false when the message had no eligible mentions or no trigger phrase, in
// which case the message is simply not a grant and nothing else is set.
type MessageOutcome struct {
	Matched    bool
	OnCooldown bool
	Remaining  time.Duration
	GrantedTo  []uint64
}

// RevokeStatus classifies the outcome of a revoke request.
type RevokeStatus int

const (
	// RevokeStatusRevoked means at least one point was removed.
	RevokeStatusRevoked RevokeStatus = iota
	// RevokeStatusDenied rejects callers without revoke privileges.
	RevokeStatusDenied
	// RevokeStatusInvalidAmount rejects non-positive amounts.
	RevokeStatusInvalidAmount
	// RevokeStatusNothingToRevoke means the recipient had no points to
	// remove in the requested scope.
	RevokeStatusNothingToRevoke
	// RevokeStatusStoreFailed means the ledger call failed before any
	// point was removed.
	RevokeStatusStoreFailed
)

// RevokeRequest carries one revoke command.
type RevokeRequest struct {
	GuildID               uint64
	RecipientID           uint64
	ChannelID             uint64 // zero revokes from the global count only
	CallerID              uint64
	CallerIsAdministrator bool
	Amount                int // zero defaults to one
}

// RevokeResult reports how many points were actually removed, which may be
// fewer than requested when the recipient ran out.
type RevokeResult struct {
	Status  RevokeStatus
	Applied int
}

// Service orchestrates grants and revokes: it enforces the business rules,
// consults the cooldown tracker and trigger detector, and delegates all
// state changes to the store.
type Service struct {
	store    Store
	cooldown *CooldownTracker
	triggers *TriggerDetector
	admins   map[uint64]struct{}
	logger   *zap.Logger
}

// NewService creates the orchestrator with its injected dependencies.
func NewService(
	store Store,
	cooldown *CooldownTracker,
	triggers *TriggerDetector,
	adminIDs []uint64,
	logger *zap.Logger,
) *Service {
	admins := make(map[uint64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Service{
		store:    store,
		cooldown: cooldown,
		triggers: triggers,
		admins:   admins,
		logger:   logger.Named("reputation"),
	}
}

// Grant validates and applies one explicit grant. Checks short-circuit in
// order: self-grant, bot target, cooldown, then the store call. The cooldown
// is recorded only after the store confirms the point landed.
func (s *Service) Grant(ctx context.Context, req GrantRequest) GrantResult {
	if req.RecipientID == req.GiverID {
		return GrantResult{Status: GrantStatusSelfTarget}
	}

	if req.RecipientIsBot {
		return GrantResult{Status: GrantStatusBotTarget}
	}

	if s.cooldown.IsOnCooldown(req.GiverID) {
		return GrantResult{
			Status:    GrantStatusOnCooldown,
			Remaining: s.cooldown.Remaining(req.GiverID),
		}
	}

	err := s.store.Grant(ctx, req.GuildID, req.RecipientID, req.ChannelID, req.ChannelName, req.GiverID)
	if err != nil {
		s.logger.Error("Failed to grant reputation",
			zap.Uint64("guildID", req.GuildID),
			zap.Uint64("recipientID", req.RecipientID),
			zap.Uint64("giverID", req.GiverID),
			zap.Error(err))

		return GrantResult{Status: GrantStatusStoreFailed}
	}

	s.cooldown.RecordGrant(req.GiverID)

	return GrantResult{Status: GrantStatusGranted}
}

// GrantFromMessage handles a mention-plus-trigger-word message. Every
// eligible mention is granted independently; the cooldown is recorded once
// per message after at least one grant succeeds, so one message with several
// mentions costs the giver a single cooldown window.
func (s *Service) GrantFromMessage(ctx context.Context, msg MessageGrant) MessageOutcome {
	if msg.AuthorIsBot {
		return MessageOutcome{}
	}

	eligible := make([]uint64, 0, len(msg.Mentions))

	for _, mention := range msg.Mentions {
		if mention.UserID == msg.AuthorID || mention.IsBot {
			continue
		}

		eligible = append(eligible, mention.UserID)
	}

	if len(eligible) == 0 || !s.triggers.Match(msg.Content) {
		return MessageOutcome{}
	}

	if s.cooldown.IsOnCooldown(msg.AuthorID) {
		return MessageOutcome{
			Matched:    true,
			OnCooldown: true,
			Remaining:  s.cooldown.Remaining(msg.AuthorID),
		}
	}

	// Grants to distinct recipients touch distinct rows, so they can run
	// concurrently; the store serializes any that collide.
	granted := iter.Map(eligible, func(userID *uint64) bool {
		err := s.store.Grant(ctx, msg.GuildID, *userID, msg.ChannelID, msg.ChannelName, msg.AuthorID)
		if err != nil {
			s.logger.Error("Failed to grant reputation from message",
				zap.Uint64("guildID", msg.GuildID),
				zap.Uint64("recipientID", *userID),
				zap.Uint64("giverID", msg.AuthorID),
				zap.Error(err))

			return false
		}

		return true
	})

	outcome := MessageOutcome{Matched: true}

	for i, ok := range granted {
		if ok {
			outcome.GrantedTo = append(outcome.GrantedTo, eligible[i])
		}
	}

	if len(outcome.GrantedTo) > 0 {
		s.cooldown.RecordGrant(msg.AuthorID)
	}

	return outcome
}

// Revoke removes up to Amount points from the recipient, stopping at the
// first point that cannot be removed. Only configured admins or members with
// administrator permission may revoke.
func (s *Service) Revoke(ctx context.Context, req RevokeRequest) RevokeResult {
	if !s.canRevoke(req.CallerID, req.CallerIsAdministrator) {
		return RevokeResult{Status: RevokeStatusDenied}
	}

	amount := req.Amount
	if amount == 0 {
		amount = 1
	}

	if amount < 1 {
		return RevokeResult{Status: RevokeStatusInvalidAmount}
	}

	applied := 0

	for range amount {
		removed, err := s.store.Revoke(ctx, req.GuildID, req.RecipientID, req.ChannelID)
		if err != nil {
			s.logger.Error("Failed to revoke reputation",
				zap.Uint64("guildID", req.GuildID),
				zap.Uint64("recipientID", req.RecipientID),
				zap.Int("applied", applied),
				zap.Error(err))

			if applied == 0 {
				return RevokeResult{Status: RevokeStatusStoreFailed}
			}

			break
		}

		if !removed {
			break
		}

		applied++
	}

	if applied == 0 {
		return RevokeResult{Status: RevokeStatusNothingToRevoke}
	}

	return RevokeResult{Status: RevokeStatusRevoked, Applied: applied}
}

// Cooldown exposes the tracker for callers that render remaining time.
func (s *Service) Cooldown() *CooldownTracker {
	return s.cooldown
}

func (s *Service) canRevoke(callerID uint64, isAdministrator bool) bool {
	if isAdministrator {
		return true
	}

	_, ok := s.admins[callerID]

	return ok
}
