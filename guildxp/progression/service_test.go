package progression

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

// In-memory fakes mirroring the store semantics the repositories
// promise: additive increments, conflict-safe inserts, monotonic quest
// completion.

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Upsert(_ context.Context, u *models.User) error {
	f.users[u.DiscordID] = u
	return nil
}

func (f *fakeUserRepo) GetByDiscordID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

type fakeGroupRepo struct {
	groups map[string]*models.Group
}

func (f *fakeGroupRepo) Upsert(_ context.Context, g *models.Group) error {
	f.groups[g.DiscordID] = g
	return nil
}

func (f *fakeGroupRepo) GetByDiscordID(_ context.Context, id string) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

type fakeMembershipRepo struct {
	rows map[string]*models.Membership
}

func membershipKey(userID, groupID string) string {
	return userID + ":" + groupID
}

func (f *fakeMembershipRepo) Get(_ context.Context, userID, groupID string) (*models.Membership, error) {
	m, ok := f.rows[membershipKey(userID, groupID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMembershipRepo) GetOrCreate(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	key := membershipKey(userID, groupID)
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = &models.Membership{UserID: userID, GroupID: groupID, LevelID: 1, IsActive: true}
	}
	return f.Get(ctx, userID, groupID)
}

func (f *fakeMembershipRepo) AddMessageStats(_ context.Context, userID, groupID string, xp, coins int64) error {
	m := f.rows[membershipKey(userID, groupID)]
	m.XP += xp
	m.Coins += coins
	m.TotalMessages++
	now := time.Now()
	m.LastMessageAt = now
	m.LastXPGain = now
	return nil
}

func (f *fakeMembershipRepo) AddStats(_ context.Context, userID, groupID string, xp, coins int64) error {
	m := f.rows[membershipKey(userID, groupID)]
	m.XP += xp
	m.Coins += coins
	return nil
}

func (f *fakeMembershipRepo) SetLevel(_ context.Context, userID, groupID string, levelID int64) error {
	f.rows[membershipKey(userID, groupID)].LevelID = levelID
	return nil
}

func (f *fakeMembershipRepo) SetClan(_ context.Context, userID, groupID string, clanID int64) error {
	f.rows[membershipKey(userID, groupID)].ClanID = &clanID
	return nil
}

func (f *fakeMembershipRepo) ClearClan(_ context.Context, userID, groupID string) error {
	f.rows[membershipKey(userID, groupID)].ClanID = nil
	return nil
}

func (f *fakeMembershipRepo) ClearClanForAll(_ context.Context, clanID int64) error {
	for _, m := range f.rows {
		if m.ClanID != nil && *m.ClanID == clanID {
			m.ClanID = nil
		}
	}
	return nil
}

func (f *fakeMembershipRepo) Reset(_ context.Context, userID, groupID string) error {
	m := f.rows[membershipKey(userID, groupID)]
	m.XP, m.Coins, m.LevelID, m.TotalMessages = 0, 0, 1, 0
	m.ClanID = nil
	return nil
}

func (f *fakeMembershipRepo) GetTopByXP(_ context.Context, _ string, _, _ int) ([]*models.Membership, error) {
	return nil, nil
}

func (f *fakeMembershipRepo) CountByGroup(_ context.Context, _ string) (int, error) {
	return len(f.rows), nil
}

func (f *fakeMembershipRepo) ListByClan(_ context.Context, _ int64) ([]*models.Membership, error) {
	return nil, nil
}

type fakeLevelRepo struct {
	levels []*models.Level
}

func (f *fakeLevelRepo) GetByID(_ context.Context, id int64) (*models.Level, error) {
	for _, l := range f.levels {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLevelRepo) GetByNumber(_ context.Context, number int) (*models.Level, error) {
	for _, l := range f.levels {
		if l.Number == number {
			return l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLevelRepo) GetByXP(_ context.Context, xp int64) (*models.Level, error) {
	var best *models.Level
	for _, l := range f.levels {
		if l.RequiredXP <= xp && (best == nil || l.RequiredXP > best.RequiredXP) {
			best = l
		}
	}
	if best == nil {
		return nil, sql.ErrNoRows
	}
	return best, nil
}

func (f *fakeLevelRepo) GetAll(_ context.Context) ([]*models.Level, error) {
	return f.levels, nil
}

type fakeBadgeRepo struct {
	catalog []*models.Badge
	earned  map[string]time.Time
}

func badgeKey(userID, groupID string, badgeID int64) string {
	return fmt.Sprintf("%s:%s:%d", userID, groupID, badgeID)
}

func (f *fakeBadgeRepo) ListActive(_ context.Context) ([]*models.Badge, error) {
	return f.catalog, nil
}

func (f *fakeBadgeRepo) ListEarned(_ context.Context, userID, groupID string) ([]*models.UserBadge, error) {
	var out []*models.UserBadge
	for _, b := range f.catalog {
		if at, ok := f.earned[badgeKey(userID, groupID, b.ID)]; ok {
			out = append(out, &models.UserBadge{UserID: userID, GroupID: groupID, BadgeID: b.ID, EarnedAt: at, Badge: b})
		}
	}
	return out, nil
}

func (f *fakeBadgeRepo) CountEarned(ctx context.Context, userID, groupID string) (int, error) {
	earned, _ := f.ListEarned(ctx, userID, groupID)
	return len(earned), nil
}

func (f *fakeBadgeRepo) Award(_ context.Context, userID, groupID string, badgeID int64) (bool, error) {
	key := badgeKey(userID, groupID, badgeID)
	if _, ok := f.earned[key]; ok {
		return false, nil
	}
	f.earned[key] = time.Now()
	return true, nil
}

type fakeQuestRepo struct {
	rows map[string]*models.DailyQuest
}

func questKey(userID, groupID, questType, questDate string) string {
	return userID + ":" + groupID + ":" + questType + ":" + questDate
}

func (f *fakeQuestRepo) ListForDate(_ context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error) {
	var out []*models.DailyQuest
	for _, q := range f.rows {
		if q.UserID == userID && q.GroupID == groupID && q.QuestDate == questDate {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestRepo) CreateIfAbsent(ctx context.Context, quests []*models.DailyQuest) error {
	if len(quests) == 0 {
		return nil
	}
	existing, _ := f.ListForDate(ctx, quests[0].UserID, quests[0].GroupID, quests[0].QuestDate)
	if len(existing) > 0 {
		return nil
	}
	for _, q := range quests {
		f.rows[questKey(q.UserID, q.GroupID, q.QuestType, q.QuestDate)] = q
	}
	return nil
}

func (f *fakeQuestRepo) AddProgress(_ context.Context, userID, groupID, questType, questDate string, amount int64) error {
	q, ok := f.rows[questKey(userID, groupID, questType, questDate)]
	if !ok || q.IsCompleted {
		return nil
	}
	q.CurrentProgress += amount
	if q.CurrentProgress >= q.TargetValue {
		q.IsCompleted = true
		now := time.Now()
		q.CompletedAt = &now
	}
	return nil
}

func (f *fakeQuestRepo) GetCompleted(ctx context.Context, userID, groupID, questDate string) ([]*models.DailyQuest, error) {
	all, _ := f.ListForDate(ctx, userID, groupID, questDate)
	var out []*models.DailyQuest
	for _, q := range all {
		if q.IsCompleted {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeClanRepo struct {
	clans map[int64]*models.Clan
}

func (f *fakeClanRepo) GetByID(_ context.Context, id int64) (*models.Clan, error) {
	c, ok := f.clans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeClanRepo) GetByName(_ context.Context, _, _ string) (*models.Clan, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeClanRepo) ListByGroup(_ context.Context, _ string) ([]*models.Clan, error) {
	return nil, nil
}

func (f *fakeClanRepo) Create(_ context.Context, c *models.Clan) error {
	f.clans[c.ID] = c
	return nil
}

func (f *fakeClanRepo) Delete(_ context.Context, id int64) error {
	delete(f.clans, id)
	return nil
}

func (f *fakeClanRepo) AddMember(_ context.Context, id int64) error {
	f.clans[id].MemberCount++
	return nil
}

func (f *fakeClanRepo) RemoveMember(_ context.Context, id int64) error {
	f.clans[id].MemberCount--
	return nil
}

func (f *fakeClanRepo) AddXP(_ context.Context, id int64, xp int64) error {
	c, ok := f.clans[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.TotalXP += xp
	return nil
}

type fakeMessageLogRepo struct {
	logs []*models.MessageLog
}

func (f *fakeMessageLogRepo) Insert(_ context.Context, log *models.MessageLog) error {
	f.logs = append(f.logs, log)
	return nil
}

type fixture struct {
	service     *Service
	memberships *fakeMembershipRepo
	levels      *fakeLevelRepo
	badges      *fakeBadgeRepo
	quests      *fakeQuestRepo
	clans       *fakeClanRepo
	logs        *fakeMessageLogRepo
}

// newFixture wires a service with a collapsed reward range so every
// message grants exactly xp/coins.
func newFixture(xp, coins int64) *fixture {
	f := &fixture{
		memberships: &fakeMembershipRepo{rows: map[string]*models.Membership{}},
		levels: &fakeLevelRepo{levels: []*models.Level{
			{ID: 1, Number: 1, Name: "Newcomer I", RequiredXP: 0},
			{ID: 2, Number: 2, Name: "Newcomer II", RequiredXP: 100},
			{ID: 3, Number: 3, Name: "Newcomer III", RequiredXP: 250},
			{ID: 4, Number: 4, Name: "Newcomer IV", RequiredXP: 310},
			{ID: 5, Number: 5, Name: "Newcomer V", RequiredXP: 400},
		}},
		badges: &fakeBadgeRepo{earned: map[string]time.Time{}},
		quests: &fakeQuestRepo{rows: map[string]*models.DailyQuest{}},
		clans:  &fakeClanRepo{clans: map[int64]*models.Clan{}},
		logs:   &fakeMessageLogRepo{},
	}

	engine := NewEngine(Config{
		Cooldown: 60 * time.Second,
		MinXP:    xp, MaxXP: xp,
		MinCoins: coins, MaxCoins: coins,
	}, rand.New(rand.NewSource(1)))

	f.service = NewService(engine, Repositories{
		Users:       &fakeUserRepo{users: map[string]*models.User{}},
		Groups:      &fakeGroupRepo{groups: map[string]*models.Group{}},
		Memberships: f.memberships,
		Levels:      f.levels,
		Badges:      f.badges,
		Quests:      f.quests,
		Clans:       f.clans,
		MessageLogs: f.logs,
	})
	return f
}

func testInput() MessageInput {
	return MessageInput{
		UserID:    "100",
		GroupID:   "200",
		Username:  "tester",
		GroupName: "Test Guild",
		MessageID: "msg-1",
	}
}

func TestService_HandleMessage_GrantsStats(t *testing.T) {
	f := newFixture(10, 4)

	result, err := f.service.HandleMessage(context.Background(), testInput())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Granted {
		t.Fatal("expected first message to be granted")
	}
	if result.Reward.XP != 10 || result.Reward.Coins != 4 {
		t.Errorf("reward = %+v, want {10 4}", result.Reward)
	}

	m, _ := f.memberships.Get(context.Background(), "100", "200")
	if m.XP != 10 || m.Coins != 4 || m.TotalMessages != 1 {
		t.Errorf("membership = xp %d coins %d messages %d", m.XP, m.Coins, m.TotalMessages)
	}
	if len(f.logs.logs) != 1 {
		t.Errorf("expected 1 message log, got %d", len(f.logs.logs))
	}
}

func TestService_HandleMessage_CooldownBlocksEverything(t *testing.T) {
	f := newFixture(10, 4)
	ctx := context.Background()

	if _, err := f.service.HandleMessage(ctx, testInput()); err != nil {
		t.Fatal(err)
	}

	result, err := f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if result.Granted {
		t.Fatal("second message inside cooldown must not be granted")
	}

	m, _ := f.memberships.Get(ctx, "100", "200")
	if m.XP != 10 || m.Coins != 4 {
		t.Errorf("stats changed inside cooldown: xp %d coins %d", m.XP, m.Coins)
	}
	if m.TotalMessages != 1 {
		t.Errorf("message count changed inside cooldown: %d", m.TotalMessages)
	}
	if len(f.logs.logs) != 1 {
		t.Errorf("message log written inside cooldown: %d rows", len(f.logs.logs))
	}
}

func TestService_HandleMessage_SingleStepLevelUp(t *testing.T) {
	f := newFixture(20, 1)
	ctx := context.Background()

	// Start at level 3 with 295 XP; the +20 grant crosses both the
	// level 4 threshold (310) and stays below level 5 (400), but even
	// a grant crossing two thresholds advances one step only.
	m, _ := f.memberships.GetOrCreate(ctx, "100", "200")
	f.memberships.rows[membershipKey(m.UserID, m.GroupID)].XP = 295
	f.memberships.rows[membershipKey(m.UserID, m.GroupID)].LevelID = 3

	result, err := f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if !result.LeveledUp {
		t.Fatal("expected a level-up")
	}
	if result.NewLevel.Number != 4 {
		t.Errorf("advanced to level %d, want 4", result.NewLevel.Number)
	}

	after, _ := f.memberships.Get(ctx, "100", "200")
	if after.LevelID != 4 {
		t.Errorf("persisted level id = %d, want 4", after.LevelID)
	}
}

func TestService_HandleMessage_MultiThresholdStillOneStep(t *testing.T) {
	f := newFixture(500, 1)
	ctx := context.Background()

	if _, err := f.memberships.GetOrCreate(ctx, "100", "200"); err != nil {
		t.Fatal(err)
	}

	result, err := f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}
	// 500 XP clears levels 2 through 5 at once; only one ordinal moves.
	if !result.LeveledUp || result.NewLevel.Number != 2 {
		t.Fatalf("result = %+v, want single step to level 2", result)
	}
}

func TestService_HandleMessage_AwardsBadgesOnce(t *testing.T) {
	f := newFixture(10, 4)
	f.badges.catalog = []*models.Badge{
		{ID: 1, Name: "First Words", RequirementType: "messages", RequirementValue: 1},
		{ID: 2, Name: "Scholar", RequirementType: "xp", RequirementValue: 10_000},
	}
	ctx := context.Background()

	result, err := f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.BadgesAwarded) != 1 || result.BadgesAwarded[0].Name != "First Words" {
		t.Fatalf("badges awarded = %+v, want just First Words", result.BadgesAwarded)
	}

	// Outside the cooldown the badge is already held, so nothing new
	// is awarded.
	f.memberships.rows[membershipKey("100", "200")].LastXPGain = time.Now().Add(-2 * time.Minute)
	result, err = f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.BadgesAwarded) != 0 {
		t.Errorf("badge re-awarded: %+v", result.BadgesAwarded)
	}
}

func TestService_HandleMessage_QuestProgressAndCompletion(t *testing.T) {
	f := newFixture(10, 4)
	ctx := context.Background()
	today := time.Now().Format(models.QuestDateLayout)

	if _, err := f.service.HandleMessage(ctx, testInput()); err != nil {
		t.Fatal(err)
	}

	quests, _ := f.quests.ListForDate(ctx, "100", "200", today)
	if len(quests) != 3 {
		t.Fatalf("expected 3 generated quests, got %d", len(quests))
	}

	byType := map[string]*models.DailyQuest{}
	for _, q := range quests {
		byType[q.QuestType] = q
	}
	if got := byType["messages"].CurrentProgress; got != 1 {
		t.Errorf("messages progress = %d, want 1", got)
	}
	if got := byType["xp_gain"].CurrentProgress; got != 10 {
		t.Errorf("xp_gain progress = %d, want 10", got)
	}
	if got := byType["coins_gain"].CurrentProgress; got != 4 {
		t.Errorf("coins_gain progress = %d, want 4", got)
	}
}

func TestService_HandleMessage_QuestCompletionTimestampSetOnce(t *testing.T) {
	f := newFixture(10, 4)
	ctx := context.Background()
	today := time.Now().Format(models.QuestDateLayout)

	// Pre-seed the xp_gain quest at 95/100 so the +10 grant completes
	// it.
	if err := f.service.EnsureDailyQuests(ctx, "100", "200", today); err != nil {
		t.Fatal(err)
	}
	q := f.quests.rows[questKey("100", "200", "xp_gain", today)]
	q.CurrentProgress = 95

	f.memberships.rows[membershipKey("100", "200")] = &models.Membership{
		UserID: "100", GroupID: "200", LevelID: 1, IsActive: true,
	}

	result, err := f.service.HandleMessage(ctx, testInput())
	if err != nil {
		t.Fatal(err)
	}

	var completed *models.DailyQuest
	for _, c := range result.QuestsCompleted {
		if c.QuestType == "xp_gain" {
			completed = c
		}
	}
	if completed == nil {
		t.Fatal("xp_gain quest not reported as completed")
	}
	if q.CurrentProgress != 105 {
		t.Errorf("progress = %d, want 105", q.CurrentProgress)
	}
	if !q.IsCompleted || q.CompletedAt == nil {
		t.Fatal("completion flag or timestamp missing")
	}

	// A later grant leaves the completed quest untouched.
	stamp := *q.CompletedAt
	f.memberships.rows[membershipKey("100", "200")].LastXPGain = time.Now().Add(-2 * time.Minute)
	if _, err := f.service.HandleMessage(ctx, testInput()); err != nil {
		t.Fatal(err)
	}
	if q.CurrentProgress != 105 {
		t.Errorf("completed quest progressed further: %d", q.CurrentProgress)
	}
	if !q.CompletedAt.Equal(stamp) {
		t.Error("completion timestamp rewritten")
	}
}

func TestService_EnsureDailyQuests_SecondCallIsNoOp(t *testing.T) {
	f := newFixture(10, 4)
	ctx := context.Background()
	today := time.Now().Format(models.QuestDateLayout)

	if err := f.service.EnsureDailyQuests(ctx, "100", "200", today); err != nil {
		t.Fatal(err)
	}
	first, _ := f.quests.ListForDate(ctx, "100", "200", today)

	// Mutate one row so a regenerated set would be detectable.
	f.quests.rows[questKey("100", "200", "messages", today)].CurrentProgress = 7

	if err := f.service.EnsureDailyQuests(ctx, "100", "200", today); err != nil {
		t.Fatal(err)
	}
	second, _ := f.quests.ListForDate(ctx, "100", "200", today)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("quest counts = %d then %d, want 3 and 3", len(first), len(second))
	}
	if f.quests.rows[questKey("100", "200", "messages", today)].CurrentProgress != 7 {
		t.Error("second generation overwrote existing quest progress")
	}
}

func TestService_HandleMessage_CreditsClanXP(t *testing.T) {
	f := newFixture(10, 4)
	ctx := context.Background()

	f.clans.clans[7] = &models.Clan{ID: 7, Name: "Wolves", TotalXP: 90}
	m, _ := f.memberships.GetOrCreate(ctx, "100", "200")
	clanID := int64(7)
	f.memberships.rows[membershipKey(m.UserID, m.GroupID)].ClanID = &clanID

	if _, err := f.service.HandleMessage(ctx, testInput()); err != nil {
		t.Fatal(err)
	}
	if got := f.clans.clans[7].TotalXP; got != 100 {
		t.Errorf("clan xp = %d, want 100", got)
	}
}
