package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

// ErrClanFull is returned by AddMember when the clan is at capacity.
var ErrClanFull = errors.New("clan is full")

type ClanRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Clan, error)
	GetByName(ctx context.Context, groupID, name string) (*models.Clan, error)
	ListByGroup(ctx context.Context, groupID string) ([]*models.Clan, error)
	Create(ctx context.Context, clan *models.Clan) error
	Delete(ctx context.Context, id int64) error
	// AddMember bumps member_count only while below max_members.
	AddMember(ctx context.Context, id int64) error
	RemoveMember(ctx context.Context, id int64) error
	AddXP(ctx context.Context, id int64, xp int64) error
}

type clanRepository struct {
	db *bun.DB
}

func NewClanRepository(db *bun.DB) ClanRepository {
	return &clanRepository{db: db}
}

func (r *clanRepository) GetByID(ctx context.Context, id int64) (*models.Clan, error) {
	clan := new(models.Clan)
	err := r.db.NewSelect().
		Model(clan).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return clan, nil
}

func (r *clanRepository) GetByName(ctx context.Context, groupID, name string) (*models.Clan, error) {
	clan := new(models.Clan)
	err := r.db.NewSelect().
		Model(clan).
		Where("group_id = ?", groupID).
		Where("LOWER(name) = LOWER(?)", name).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return clan, nil
}

func (r *clanRepository) ListByGroup(ctx context.Context, groupID string) ([]*models.Clan, error) {
	var clans []*models.Clan
	err := r.db.NewSelect().
		Model(&clans).
		Where("group_id = ?", groupID).
		Order("total_xp DESC").
		Scan(ctx)
	return clans, err
}

func (r *clanRepository) Create(ctx context.Context, clan *models.Clan) error {
	now := time.Now()
	clan.CreatedAt = now
	clan.UpdatedAt = now
	_, err := r.db.NewInsert().
		Model(clan).
		Exec(ctx)
	return err
}

func (r *clanRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Clan)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *clanRepository) AddMember(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Clan)(nil)).
		Set("member_count = member_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("member_count < max_members").
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClanFull
	}
	return nil
}

func (r *clanRepository) RemoveMember(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Clan)(nil)).
		Set("member_count = member_count - 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("member_count > 0").
		Exec(ctx)
	return err
}

func (r *clanRepository) AddXP(ctx context.Context, id int64, xp int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Clan)(nil)).
		Set("total_xp = total_xp + ?", xp).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
