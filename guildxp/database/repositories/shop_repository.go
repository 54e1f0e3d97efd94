package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/guildxp/guildxp-bot/guildxp/database/models"
)

// ErrInsufficientCoins is returned by Purchase when the membership
// cannot cover the item price.
var ErrInsufficientCoins = errors.New("insufficient coins")

type ShopRepository interface {
	ListActive(ctx context.Context) ([]*models.ShopItem, error)
	GetByID(ctx context.Context, id int64) (*models.ShopItem, error)
	// Purchase deducts the price and records the item in one
	// transaction. The deduction is conditional on the balance, so two
	// concurrent purchases cannot overdraw.
	Purchase(ctx context.Context, userID, groupID string, item *models.ShopItem) error
	ListInventory(ctx context.Context, userID, groupID string) ([]*models.UserInventory, error)
}

type shopRepository struct {
	db *bun.DB
}

func NewShopRepository(db *bun.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) ListActive(ctx context.Context) ([]*models.ShopItem, error) {
	var items []*models.ShopItem
	err := r.db.NewSelect().
		Model(&items).
		Where("is_active = true").
		Order("price ASC").
		Scan(ctx)
	return items, err
}

func (r *shopRepository) GetByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	item := new(models.ShopItem)
	err := r.db.NewSelect().
		Model(item).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *shopRepository) Purchase(ctx context.Context, userID, groupID string, item *models.ShopItem) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Membership)(nil)).
			Set("coins = coins - ?", item.Price).
			Set("updated_at = ?", time.Now()).
			Where("user_id = ?", userID).
			Where("group_id = ?", groupID).
			Where("coins >= ?", item.Price).
			Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientCoins
		}

		entry := &models.UserInventory{
			UserID:     userID,
			GroupID:    groupID,
			ItemID:     item.ID,
			Quantity:   1,
			IsActive:   true,
			AcquiredAt: time.Now(),
		}
		if item.DurationHours > 0 {
			expires := time.Now().Add(time.Duration(item.DurationHours) * time.Hour)
			entry.ExpiresAt = &expires
		}

		_, err = tx.NewInsert().Model(entry).Exec(ctx)
		return err
	})
}

func (r *shopRepository) ListInventory(ctx context.Context, userID, groupID string) ([]*models.UserInventory, error) {
	var inventory []*models.UserInventory
	err := r.db.NewSelect().
		Model(&inventory).
		Relation("Item").
		Where("ui.user_id = ?", userID).
		Where("ui.group_id = ?", groupID).
		Order("ui.acquired_at DESC").
		Scan(ctx)
	return inventory, err
}
