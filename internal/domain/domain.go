package domain

import (
	"github.com/yungbote/styleswipe-backend/internal/domain/auth"
	"github.com/yungbote/styleswipe-backend/internal/domain/cart"
	"github.com/yungbote/styleswipe-backend/internal/domain/catalog"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
)

type User = user.User
type UserProfile = user.UserProfile
type PreferenceTallies = user.PreferenceTallies
type Preferences = user.Preferences

type UserToken = auth.UserToken

type Item = catalog.Item
type Stock = catalog.Stock

type CartItem = cart.CartItem

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserProfile{},
		&UserToken{},
		&Item{},
		&CartItem{},
	}
}
