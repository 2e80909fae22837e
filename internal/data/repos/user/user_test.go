package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/styleswipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	suffix := uuid.NewString()[:8]

	created, err := repo.Create(dbc, []*types.User{
		{
			Username: "ana_" + suffix,
			Email:    "ana_" + suffix + "@example.com",
			Password: "pw",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}
	u := created[0]

	got, err := repo.GetByIdentifier(dbc, u.Username)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByIdentifier(username): %v %+v", err, got)
	}
	got, err = repo.GetByIdentifier(dbc, "ANA_"+suffix+"@EXAMPLE.com")
	if err != nil {
		t.Fatalf("GetByIdentifier(email): %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("email lookup should be case-insensitive, got %+v", got)
	}
	if got, err := repo.GetByIdentifier(dbc, "nobody_"+suffix); err != nil || got != nil {
		t.Fatalf("GetByIdentifier(missing): %v %+v", err, got)
	}

	conflicts, err := repo.FindConflicting(dbc, u.Username, "other@example.com", uuid.Nil)
	if err != nil || len(conflicts) != 1 {
		t.Fatalf("FindConflicting: %v %d", err, len(conflicts))
	}
	conflicts, err = repo.FindConflicting(dbc, u.Username, "", u.ID)
	if err != nil || len(conflicts) != 0 {
		t.Fatalf("FindConflicting should exclude self: %v %d", err, len(conflicts))
	}

	if err := repo.UpdateFields(dbc, u.ID, map[string]any{"bio": "hi", "gender": "female"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	at := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	if err := repo.TouchLastActive(dbc, u.ID, at); err != nil {
		t.Fatalf("TouchLastActive: %v", err)
	}
	got, err = repo.GetByID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Bio != "hi" || got.Gender != "female" || !got.LastActive.Equal(at) {
		t.Fatalf("unexpected user after updates: %+v", got)
	}
}

func TestUserProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u, _ := testutil.SeedUser(t, ctx, tx, "prof_"+uuid.NewString()[:8])
	repo := NewUserProfileRepo(db, testutil.Logger(t))

	p, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || p == nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if p.Version != 0 || len(p.LikedItems) != 0 || p.PreferenceTallies.Data().Brands == nil {
		t.Fatalf("unexpected fresh profile: %+v", p)
	}

	size := 9.5
	prefs := types.Preferences{ShoeSize: &size, FavoriteBrands: []string{"Nike"}, PriceRange: "$50-100"}
	if err := repo.UpdatePreferences(dbc, u.ID, prefs); err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	p, err = repo.GetByUserID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	got := p.Preferences.Data()
	if got.ShoeSize == nil || *got.ShoeSize != 9.5 || got.PriceRange != "$50-100" || len(got.FavoriteBrands) != 1 {
		t.Fatalf("preferences not persisted: %+v", got)
	}

	if p, err := repo.GetByUserID(dbc, uuid.New()); err != nil || p != nil {
		t.Fatalf("missing profile: %v %+v", err, p)
	}

	// Liked sets round-trip through JSON.
	id := uuid.New()
	if err := tx.Model(&types.UserProfile{}).Where("user_id = ?", u.ID).
		Update("liked_items", datatypes.JSONSlice[uuid.UUID]{id}).Error; err != nil {
		t.Fatalf("update liked: %v", err)
	}
	p, _ = repo.GetByUserID(dbc, u.ID)
	if len(p.LikedItems) != 1 || p.LikedItems[0] != id {
		t.Fatalf("liked items: %v", p.LikedItems)
	}
}
