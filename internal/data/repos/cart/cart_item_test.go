package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/styleswipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

func TestCartItemRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u, _ := testutil.SeedUser(t, ctx, tx, "cart_"+uuid.NewString()[:8])
	other, _ := testutil.SeedUser(t, ctx, tx, "cart_"+uuid.NewString()[:8])
	item := testutil.SeedItem(t, ctx, tx, "Nike", 60)

	repo := NewCartItemRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.CartItem{{UserID: u.ID, ItemID: item.ID, Size: "M", Color: "Black", Quantity: 1}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: %v", err)
	}
	lineID := created[0].ID

	line, err := repo.GetLine(dbc, u.ID, item.ID, "M", "Black")
	if err != nil || line == nil || line.ID != lineID {
		t.Fatalf("GetLine: %v %+v", err, line)
	}
	if line.Item == nil || line.Item.Brand != "Nike" {
		t.Fatalf("item not preloaded: %+v", line.Item)
	}
	if line, _ := repo.GetLine(dbc, u.ID, item.ID, "L", "Black"); line != nil {
		t.Fatalf("different size should be a different line")
	}

	if err := repo.UpdateQuantity(dbc, lineID, 3); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	lines, err := repo.ListByUserID(dbc, u.ID)
	if err != nil || len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("ListByUserID: %v %+v", err, lines)
	}
	if n, err := repo.CountByUserID(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountByUserID: %v %d", err, n)
	}

	if got, _ := repo.GetForUser(dbc, other.ID, lineID); got != nil {
		t.Fatalf("line visible to another user")
	}
	if ok, err := repo.DeleteForUser(dbc, other.ID, lineID); err != nil || ok {
		t.Fatalf("DeleteForUser(other): %v %v", err, ok)
	}
	if ok, err := repo.DeleteForUser(dbc, u.ID, lineID); err != nil || !ok {
		t.Fatalf("DeleteForUser: %v %v", err, ok)
	}
	if n, _ := repo.CountByUserID(dbc, u.ID); n != 0 {
		t.Fatalf("expected empty cart, got %d", n)
	}
}
