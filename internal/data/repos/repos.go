package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/repos/auth"
	"github.com/yungbote/styleswipe-backend/internal/data/repos/cart"
	"github.com/yungbote/styleswipe-backend/internal/data/repos/catalog"
	"github.com/yungbote/styleswipe-backend/internal/data/repos/user"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserProfileRepo = user.UserProfileRepo
type UserTokenRepo = auth.UserTokenRepo

type ItemRepo = catalog.ItemRepo
type CartItemRepo = cart.CartItemRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return user.NewUserProfileRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return catalog.NewItemRepo(db, baseLog)
}
func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	return cart.NewCartItemRepo(db, baseLog)
}

// Set bundles every repo over one database handle.
type Set struct {
	Users     UserRepo
	Profiles  UserProfileRepo
	Tokens    UserTokenRepo
	Items     ItemRepo
	CartItems CartItemRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:     NewUserRepo(db, baseLog),
		Profiles:  NewUserProfileRepo(db, baseLog),
		Tokens:    NewUserTokenRepo(db, baseLog),
		Items:     NewItemRepo(db, baseLog),
		CartItems: NewCartItemRepo(db, baseLog),
	}
}
