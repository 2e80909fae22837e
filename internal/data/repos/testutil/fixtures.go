package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
)

// SeedUser creates a user with an empty profile.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) (*types.User, *types.UserProfile) {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	p := user.NewUserProfile(u.ID)
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return u, p
}

// ItemOpt customises a seeded item.
type ItemOpt func(*types.Item)

func WithStyles(styles ...string) ItemOpt {
	return func(it *types.Item) { it.Style = datatypes.JSONSlice[string](styles) }
}

func WithColors(colors ...string) ItemOpt {
	return func(it *types.Item) { it.AvailableColors = datatypes.JSONSlice[string](colors) }
}

func WithSizes(sizes ...string) ItemOpt {
	return func(it *types.Item) { it.AvailableSizes = datatypes.JSONSlice[string](sizes) }
}

func WithGender(g string) ItemOpt {
	return func(it *types.Item) { it.Gender = g }
}

func WithCategory(c string) ItemOpt {
	return func(it *types.Item) { it.Category = c }
}

func WithPattern(p string) ItemOpt {
	return func(it *types.Item) { it.Pattern = p }
}

func Inactive() ItemOpt {
	return func(it *types.Item) { it.IsActive = false }
}

func WithStock(stock types.Stock) ItemOpt {
	return func(it *types.Item) { it.Stock = datatypes.NewJSONType(stock) }
}

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, brand string, price float64, opts ...ItemOpt) *types.Item {
	tb.Helper()
	it := &types.Item{
		ID:              uuid.New(),
		Name:            brand + " item",
		Brand:           brand,
		Category:        "tops",
		Price:           price,
		Pattern:         "solid",
		Style:           datatypes.JSONSlice[string]{"Casual"},
		AvailableColors: datatypes.JSONSlice[string]{"Black"},
		AvailableSizes:  datatypes.JSONSlice[string]{"M"},
		Gender:          "unisex",
		IsActive:        true,
		Stock:           datatypes.NewJSONType(types.Stock{"M": {"Black": 5}}),
	}
	for _, opt := range opts {
		opt(it)
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}
