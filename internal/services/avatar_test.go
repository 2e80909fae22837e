package services

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/styleswipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

func TestAvatarRenderIsStablePerUser(t *testing.T) {
	svc, err := NewAvatarService(logger.Nop(), nil, 128)
	if err != nil {
		t.Fatalf("new avatar service: %v", err)
	}
	u := &types.User{ID: uuid.New(), Username: "jane_doe", Name: "Jane Doe"}

	buf, err := svc.Render(u)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("unexpected size: %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("corner should be clipped out, alpha=%d", a)
	}
	want := avatarColor(u)
	got := color.NRGBAModel.Convert(img.At(64, 4)).(color.NRGBA)
	if got != want {
		t.Fatalf("background: got %v want %v", got, want)
	}
	if avatarColor(u) != want {
		t.Fatalf("color should be stable for a user id")
	}
}

func TestAvatarInitials(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		username string
		want     string
	}{
		{"two words", "jane doe", "x", "JD"},
		{"three words", "Mary Ann Smith", "x", "MA"},
		{"single word", "Émile", "x", "É"},
		{"username fallback", "", "sam_99", "SA"},
		{"punctuation only", "", "__", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := avatarInitials(&types.User{Name: tt.fullName, Username: tt.username})
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestRenderForCurrentUser(t *testing.T) {
	env := newTestEnv(t, testutil.DB(t))
	svc, err := NewAvatarService(env.log, env.users, 0)
	if err != nil {
		t.Fatalf("new avatar service: %v", err)
	}
	u, _ := testutil.SeedUser(t, context.Background(), env.db, uniqueName("avatar"))

	raw, err := svc.RenderForCurrentUser(asUser(u.ID))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil || cfg.Width != DefaultAvatarSize {
		t.Fatalf("unexpected png: %+v err=%v", cfg, err)
	}

	_, err = svc.RenderForCurrentUser(context.Background())
	requireAPIStatus(t, err, http.StatusUnauthorized)
	_, err = svc.RenderForCurrentUser(asUser(uuid.New()))
	requireAPIStatus(t, err, http.StatusNotFound)
}
