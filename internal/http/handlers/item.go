package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/http/response"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type ItemHandler struct {
	feed   services.FeedService
	swipes services.SwipeService
	items  services.ItemService
}

func NewItemHandler(feed services.FeedService, swipes services.SwipeService, items services.ItemService) *ItemHandler {
	return &ItemHandler{feed: feed, swipes: swipes, items: items}
}

// GET /api/items/feed?limit=&explorationRate=
func (h *ItemHandler) GetFeed(c *gin.Context) {
	req, err := h.feed.ParseRequest(c.Query("limit"), c.Query("explorationRate"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	page, err := h.feed.GetFeed(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"), "invalid_item_id", "id")
	if !ok {
		return
	}
	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, item)
}

// POST /api/items/like
func (h *ItemHandler) Like(c *gin.Context) { h.swipe(c, h.swipes.Like) }

// POST /api/items/dislike
func (h *ItemHandler) Dislike(c *gin.Context) { h.swipe(c, h.swipes.Dislike) }

// POST /api/items/undo
func (h *ItemHandler) Undo(c *gin.Context) { h.swipe(c, h.swipes.Undo) }

func (h *ItemHandler) swipe(c *gin.Context, op func(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error)) {
	var req struct {
		ItemID string `json:"itemId"`
	}
	if !bindJSON(c, &req) {
		return
	}
	id, ok := parseID(c, req.ItemID, "invalid_item_id", "itemId")
	if !ok {
		return
	}
	res, err := op(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, swipeBody(res))
}

func swipeBody(res domainagg.SwipeResult) gin.H {
	return gin.H{
		"message":            res.Message,
		"action":             res.Action,
		"changed":            res.Changed,
		"wasLiked":           res.WasLiked,
		"wasDisliked":        res.WasDisliked,
		"likedItemsCount":    res.LikedCount,
		"dislikedItemsCount": res.DislikedCount,
		"version":            res.Version,
	}
}
