package progression

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
	"github.com/guildxp/guildxp-bot/guildxp/database/repositories"
)

// Repositories bundles the stores the pipeline writes to.
type Repositories struct {
	Users       repositories.UserRepository
	Groups      repositories.GroupRepository
	Memberships repositories.MembershipRepository
	Levels      repositories.LevelRepository
	Badges      repositories.BadgeRepository
	Quests      repositories.QuestRepository
	Clans       repositories.ClanRepository
	MessageLogs repositories.MessageLogRepository
}

// Service runs the per-message progression pipeline. Grants for the
// same membership are serialized with a keyed lock; the write order
// within one event is stat write, re-read, level-up, badges, quests,
// clan XP, and a failed step never rolls back the steps before it.
type Service struct {
	engine *Engine
	repos  Repositories
	locks  lockManager
}

func NewService(engine *Engine, repos Repositories) *Service {
	return &Service{engine: engine, repos: repos}
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// MessageInput is one observed guild message.
type MessageInput struct {
	UserID      string
	GroupID     string
	Username    string
	DisplayName string
	GroupName   string
	MessageID   string
}

// HandleMessage runs the full pipeline for one message. It always
// returns a result; store failures inside the pipeline are logged and
// end the pipeline early without undoing earlier writes.
func (s *Service) HandleMessage(ctx context.Context, in MessageInput) (*MessageResult, error) {
	result := &MessageResult{}

	// The lock covers the cooldown read, so two concurrent messages
	// from the same member cannot both pass against a stale timestamp.
	unlock := s.locks.lock(in.UserID, in.GroupID)
	defer unlock()

	membership, err := s.ensureMembership(ctx, in)
	if err != nil {
		return result, err
	}

	if s.engine.CooldownActive(membership.LastXPGain, time.Now()) {
		return result, nil
	}

	reward := s.engine.RollReward()
	if err := s.repos.Memberships.AddMessageStats(ctx, in.UserID, in.GroupID, reward.XP, reward.Coins); err != nil {
		slog.Error("Failed to apply message stats",
			slog.String("type", "db"),
			slog.String("user_id", in.UserID),
			slog.String("group_id", in.GroupID),
			slog.Any("error", err))
		return result, nil
	}
	result.Granted = true
	result.Reward = reward

	s.logMessage(ctx, in, reward)

	// Re-read so every derived step sees the post-increment row.
	membership, err = s.repos.Memberships.Get(ctx, in.UserID, in.GroupID)
	if err != nil {
		slog.Error("Failed to re-read membership after grant",
			slog.String("type", "db"),
			slog.String("user_id", in.UserID),
			slog.Any("error", err))
		return result, nil
	}

	s.resolveLevelUp(ctx, in, membership, result)
	s.awardEarnedBadges(ctx, in, membership, result)
	s.progressDailyQuests(ctx, in, reward, result)
	s.creditClan(ctx, membership, reward)

	return result, nil
}

func (s *Service) ensureMembership(ctx context.Context, in MessageInput) (*models.Membership, error) {
	if err := s.repos.Users.Upsert(ctx, &models.User{
		DiscordID:   in.UserID,
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Locale:      "en",
	}); err != nil {
		return nil, err
	}

	if err := s.repos.Groups.Upsert(ctx, &models.Group{
		DiscordID: in.GroupID,
		Name:      in.GroupName,
	}); err != nil {
		return nil, err
	}

	return s.repos.Memberships.GetOrCreate(ctx, in.UserID, in.GroupID)
}

func (s *Service) logMessage(ctx context.Context, in MessageInput, reward Reward) {
	err := s.repos.MessageLogs.Insert(ctx, &models.MessageLog{
		UserID:      in.UserID,
		GroupID:     in.GroupID,
		MessageID:   in.MessageID,
		XPGained:    reward.XP,
		CoinsGained: reward.Coins,
		MessageType: "text",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("Failed to insert message log",
			slog.String("type", "db"),
			slog.String("message_id", in.MessageID),
			slog.Any("error", err))
	}
}

// resolveLevelUp checks one ordinal above the current level. Crossing
// several thresholds with one grant still advances a single step;
// later messages catch the rest up.
func (s *Service) resolveLevelUp(ctx context.Context, in MessageInput, m *models.Membership, result *MessageResult) {
	current, err := s.repos.Levels.GetByID(ctx, m.LevelID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Failed to load current level", slog.Int64("level_id", m.LevelID), slog.Any("error", err))
		}
		return
	}

	next, err := s.repos.Levels.GetByNumber(ctx, current.Number+1)
	if err != nil {
		// Top of the ladder has no next row.
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Failed to load next level", slog.Int("number", current.Number+1), slog.Any("error", err))
		}
		return
	}

	if !s.engine.ShouldAdvance(m.XP, next) {
		return
	}

	if err := s.repos.Memberships.SetLevel(ctx, in.UserID, in.GroupID, next.ID); err != nil {
		slog.Error("Failed to persist level-up",
			slog.String("user_id", in.UserID),
			slog.Int("number", next.Number),
			slog.Any("error", err))
		return
	}

	m.LevelID = next.ID
	result.LeveledUp = true
	result.NewLevel = next
}

func (s *Service) awardEarnedBadges(ctx context.Context, in MessageInput, m *models.Membership, result *MessageResult) {
	badges, err := s.repos.Badges.ListActive(ctx)
	if err != nil {
		slog.Error("Failed to list badges", slog.Any("error", err))
		return
	}

	earned, err := s.repos.Badges.ListEarned(ctx, in.UserID, in.GroupID)
	if err != nil {
		slog.Error("Failed to list earned badges", slog.Any("error", err))
		return
	}
	earnedIDs := make(map[int64]struct{}, len(earned))
	for _, ub := range earned {
		earnedIDs[ub.BadgeID] = struct{}{}
	}

	levelNumber := s.levelNumber(ctx, m.LevelID)

	for _, badge := range badges {
		if _, ok := earnedIDs[badge.ID]; ok {
			continue
		}

		kind, err := ParseRequirementKind(badge.RequirementType)
		if err != nil {
			slog.Warn("Skipping badge with unknown requirement",
				slog.String("badge", badge.Name),
				slog.Any("error", err))
			continue
		}

		if !s.engine.MeetsBadgeRequirement(kind, badge.RequirementValue, m, levelNumber) {
			continue
		}

		awarded, err := s.repos.Badges.Award(ctx, in.UserID, in.GroupID, badge.ID)
		if err != nil {
			slog.Error("Failed to award badge", slog.String("badge", badge.Name), slog.Any("error", err))
			continue
		}
		if awarded {
			result.BadgesAwarded = append(result.BadgesAwarded, badge)
		}
	}
}

func (s *Service) levelNumber(ctx context.Context, levelID int64) int {
	level, err := s.repos.Levels.GetByID(ctx, levelID)
	if err != nil {
		return 0
	}
	return level.Number
}

// progressDailyQuests advances all three quest types for the message:
// the message itself, the XP it granted and the coins it granted.
func (s *Service) progressDailyQuests(ctx context.Context, in MessageInput, reward Reward, result *MessageResult) {
	today := time.Now().Format(models.QuestDateLayout)

	if err := s.EnsureDailyQuests(ctx, in.UserID, in.GroupID, today); err != nil {
		slog.Error("Failed to generate daily quests", slog.Any("error", err))
		return
	}

	before, err := s.repos.Quests.GetCompleted(ctx, in.UserID, in.GroupID, today)
	if err != nil {
		slog.Error("Failed to read quest state", slog.Any("error", err))
		return
	}
	alreadyDone := make(map[string]struct{}, len(before))
	for _, q := range before {
		alreadyDone[q.QuestType] = struct{}{}
	}

	deltas := map[QuestKind]int64{
		QuestMessages:  1,
		QuestXPGain:    reward.XP,
		QuestCoinsGain: reward.Coins,
	}
	for kind, delta := range deltas {
		if delta <= 0 {
			continue
		}
		if err := s.repos.Quests.AddProgress(ctx, in.UserID, in.GroupID, string(kind), today, delta); err != nil {
			slog.Error("Failed to progress quest", slog.String("quest_type", string(kind)), slog.Any("error", err))
		}
	}

	after, err := s.repos.Quests.GetCompleted(ctx, in.UserID, in.GroupID, today)
	if err != nil {
		return
	}
	for _, q := range after {
		if _, ok := alreadyDone[q.QuestType]; !ok {
			result.QuestsCompleted = append(result.QuestsCompleted, q)
		}
	}
}

// EnsureDailyQuests lazily materializes the day's quest set. Any
// existing row for the date makes this a no-op.
func (s *Service) EnsureDailyQuests(ctx context.Context, userID, groupID, questDate string) error {
	templates := QuestTemplates()
	quests := make([]*models.DailyQuest, 0, len(templates))
	for _, t := range templates {
		quests = append(quests, &models.DailyQuest{
			UserID:      userID,
			GroupID:     groupID,
			QuestType:   string(t.Kind),
			QuestDate:   questDate,
			TargetValue: t.Target,
			RewardXP:    t.RewardXP,
			RewardCoins: t.RewardCoins,
			CreatedAt:   time.Now(),
		})
	}
	return s.repos.Quests.CreateIfAbsent(ctx, quests)
}

func (s *Service) creditClan(ctx context.Context, m *models.Membership, reward Reward) {
	if m.ClanID == nil {
		return
	}
	if err := s.repos.Clans.AddXP(ctx, *m.ClanID, reward.XP); err != nil {
		slog.Error("Failed to credit clan XP", slog.Int64("clan_id", *m.ClanID), slog.Any("error", err))
	}
}
