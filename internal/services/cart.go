package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type AddToCartInput struct {
	ItemID   uuid.UUID
	Size     string
	Color    string
	Quantity int
}

type CartView struct {
	Items         []*types.CartItem `json:"items"`
	TotalQuantity int               `json:"totalQuantity"`
	Subtotal      float64           `json:"subtotal"`
}

type CartService interface {
	AddToCart(ctx context.Context, in AddToCartInput) (*types.CartItem, error)
	ListCart(ctx context.Context) (*CartView, error)
	UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) (*types.CartItem, error)
	RemoveItem(ctx context.Context, cartItemID uuid.UUID) error
}

type cartService struct {
	db       *gorm.DB
	log      *logger.Logger
	itemRepo repos.ItemRepo
	cartRepo repos.CartItemRepo
}

func NewCartService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo, cartRepo repos.CartItemRepo) CartService {
	return &cartService{
		db:       db,
		log:      log.With("service", "CartService"),
		itemRepo: itemRepo,
		cartRepo: cartRepo,
	}
}

// AddToCart merges into an existing line for the same item, size and color.
// The merged quantity may not exceed the stock for that size and color.
func (cs *cartService) AddToCart(ctx context.Context, in AddToCartInput) (*types.CartItem, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	in.Size = strings.TrimSpace(in.Size)
	in.Color = strings.TrimSpace(in.Color)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	switch {
	case in.ItemID == uuid.Nil:
		return nil, apierr.Validation("invalid_item_id", "Valid item ID is required.")
	case in.Size == "":
		return nil, apierr.Validation("invalid_size", "Size is required.")
	case in.Color == "":
		return nil, apierr.Validation("invalid_color", "Color is required.")
	case in.Quantity < 1:
		return nil, apierr.Validation("invalid_quantity", "Quantity must be at least 1.")
	}

	var line *types.CartItem
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		item, err := cs.itemRepo.GetByID(dbc, in.ItemID)
		if err != nil {
			return err
		}
		if err := checkPurchasable(item, in.Size, in.Color); err != nil {
			return err
		}

		existing, err := cs.cartRepo.GetLine(dbc, userID, in.ItemID, in.Size, in.Color)
		if err != nil {
			return err
		}
		want := in.Quantity
		if existing != nil {
			want += existing.Quantity
		}
		if err := checkStock(item, in.Size, in.Color, want); err != nil {
			return err
		}

		if existing != nil {
			if err := cs.cartRepo.UpdateQuantity(dbc, existing.ID, want); err != nil {
				return err
			}
			existing.Quantity = want
			existing.Item = item
			line = existing
			return nil
		}
		created, err := cs.cartRepo.Create(dbc, []*types.CartItem{{
			ID:        uuid.New(),
			UserID:    userID,
			ItemID:    item.ID,
			Size:      in.Size,
			Color:     in.Color,
			Quantity:  want,
			DateAdded: time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		line = created[0]
		line.Item = item
		return nil
	})
	if err != nil {
		if _, ok := apierr.As(err); ok {
			return nil, err
		}
		if domainagg.IsCode(aggregates.MapError("Cart.Add", err), domainagg.CodeConflict) {
			return nil, apierr.Conflict("cart_conflict", "Cart changed concurrently, please retry")
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return line, nil
}

func (cs *cartService) ListCart(ctx context.Context) (*CartView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := cs.cartRepo.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	view := &CartView{Items: lines}
	for _, l := range lines {
		view.TotalQuantity += l.Quantity
		if l.Item != nil {
			view.Subtotal += l.Item.Price * float64(l.Quantity)
		}
	}
	return view, nil
}

func (cs *cartService) UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) (*types.CartItem, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if cartItemID == uuid.Nil {
		return nil, apierr.Validation("invalid_cart_item_id", "Valid cart item ID is required.")
	}
	if quantity < 1 {
		return nil, apierr.Validation("invalid_quantity", "Quantity must be at least 1.")
	}

	var line *types.CartItem
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		line, err = cs.cartRepo.GetForUser(dbc, userID, cartItemID)
		if err != nil {
			return err
		}
		if line == nil {
			return apierr.NotFound("cart_item_not_found", "Cart item not found")
		}
		if err := checkPurchasable(line.Item, line.Size, line.Color); err != nil {
			return err
		}
		if err := checkStock(line.Item, line.Size, line.Color, quantity); err != nil {
			return err
		}
		if err := cs.cartRepo.UpdateQuantity(dbc, line.ID, quantity); err != nil {
			return err
		}
		line.Quantity = quantity
		return nil
	})
	if err != nil {
		if _, ok := apierr.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return line, nil
}

func (cs *cartService) RemoveItem(ctx context.Context, cartItemID uuid.UUID) error {
	userID, err := requestUserID(ctx)
	if err != nil {
		return err
	}
	if cartItemID == uuid.Nil {
		return apierr.Validation("invalid_cart_item_id", "Valid cart item ID is required.")
	}
	deleted, err := cs.cartRepo.DeleteForUser(dbctx.Context{Ctx: ctx}, userID, cartItemID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if !deleted {
		return apierr.NotFound("cart_item_not_found", "Cart item not found")
	}
	return nil
}

func checkPurchasable(item *types.Item, size, color string) error {
	if item == nil {
		return apierr.NotFound("item_not_found", "Item not found")
	}
	if !item.IsActive {
		return apierr.Validation("item_inactive", "Item is no longer available")
	}
	if !slices.Contains(item.AvailableSizes, size) {
		return apierr.Validation("invalid_size", "Size not available for this item")
	}
	if !slices.Contains(item.AvailableColors, color) {
		return apierr.Validation("invalid_color", "Color not available for this item")
	}
	return nil
}

func checkStock(item *types.Item, size, color string, quantity int) error {
	if inStock := item.Stock.Data().Quantity(size, color); quantity > inStock {
		return apierr.Validation("insufficient_stock", fmt.Sprintf("Only %d left in stock for this size and color", inStock))
	}
	return nil
}
