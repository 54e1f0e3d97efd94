package repositories

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

type LevelRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Level, error)
	GetByNumber(ctx context.Context, number int) (*models.Level, error)
	// GetByXP returns the highest level whose required_xp does not
	// exceed xp. Level 1 requires 0 XP, so there is always a match.
	GetByXP(ctx context.Context, xp int64) (*models.Level, error)
	GetAll(ctx context.Context) ([]*models.Level, error)
}

// levelRepository caches by id and number. Levels are static reference
// data, so cached entries never go stale. GetByXP is not cached; its
// answer depends on a continuous input.
type levelRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewLevelRepository(db *bun.DB) LevelRepository {
	cache, _ := lru.New(128)
	return &levelRepository{db: db, cache: cache}
}

func (r *levelRepository) GetByID(ctx context.Context, id int64) (*models.Level, error) {
	key := fmt.Sprintf("id:%d", id)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*models.Level), nil
	}

	level := new(models.Level)
	err := r.db.NewSelect().
		Model(level).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	r.cacheLevel(level)
	return level, nil
}

func (r *levelRepository) GetByNumber(ctx context.Context, number int) (*models.Level, error) {
	key := fmt.Sprintf("number:%d", number)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*models.Level), nil
	}

	level := new(models.Level)
	err := r.db.NewSelect().
		Model(level).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	r.cacheLevel(level)
	return level, nil
}

func (r *levelRepository) GetByXP(ctx context.Context, xp int64) (*models.Level, error) {
	level := new(models.Level)
	err := r.db.NewSelect().
		Model(level).
		Where("required_xp <= ?", xp).
		Order("required_xp DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	r.cacheLevel(level)
	return level, nil
}

func (r *levelRepository) GetAll(ctx context.Context) ([]*models.Level, error) {
	var levels []*models.Level
	err := r.db.NewSelect().
		Model(&levels).
		Order("number ASC").
		Scan(ctx)
	return levels, err
}

func (r *levelRepository) cacheLevel(level *models.Level) {
	r.cache.Add(fmt.Sprintf("id:%d", level.ID), level)
	r.cache.Add(fmt.Sprintf("number:%d", level.Number), level)
}
