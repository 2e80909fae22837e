package feed

import (
	"encoding/binary"

	"github.com/google/uuid"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"gorm.io/datatypes"
)

func idFor(n int) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], uint64(n))
	return id
}

func testItem(n int, brand string, price float64) *types.Item {
	return &types.Item{
		ID:              idFor(n),
		Name:            "item",
		Brand:           brand,
		Category:        "tops",
		Price:           price,
		Pattern:         "solid",
		Style:           datatypes.JSONSlice[string]{"Casual", "Streetwear"},
		AvailableColors: datatypes.JSONSlice[string]{"Black"},
		AvailableSizes:  datatypes.JSONSlice[string]{"M", "10"},
		Gender:          "unisex",
		IsActive:        true,
	}
}

func emptyProfile() *types.UserProfile {
	return user.NewUserProfile(uuid.New())
}
