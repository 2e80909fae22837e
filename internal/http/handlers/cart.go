package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/styleswipe-backend/internal/http/response"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type CartHandler struct {
	cart services.CartService
}

func NewCartHandler(cart services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// POST /api/users/account/add-to-cart
// body: { "itemId": "...", "size": "M", "color": "Black", "quantity": 1 }
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req struct {
		ItemID   string `json:"itemId"`
		Size     string `json:"size"`
		Color    string `json:"color"`
		Quantity int    `json:"quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	itemID, ok := parseID(c, req.ItemID, "invalid_item_id", "itemId")
	if !ok {
		return
	}
	line, err := h.cart.AddToCart(c.Request.Context(), services.AddToCartInput{
		ItemID:   itemID,
		Size:     req.Size,
		Color:    req.Color,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Item added to cart", "cartItem": line})
}

// GET /api/users/cart
func (h *CartHandler) ListCart(c *gin.Context) {
	view, err := h.cart.ListCart(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/users/cart
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req struct {
		CartItemID string `json:"cartItemId"`
		Quantity   int    `json:"quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, ok := parseID(c, req.CartItemID, "invalid_cart_item_id", "cartItemId")
	if !ok {
		return
	}
	line, err := h.cart.UpdateQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Cart item updated", "cartItem": line})
}

// DELETE /api/users/cart
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	var req struct {
		CartItemID string `json:"cartItemId"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, ok := parseID(c, req.CartItemID, "invalid_cart_item_id", "cartItemId")
	if !ok {
		return
	}
	if err := h.cart.RemoveItem(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Item removed from cart"})
}
