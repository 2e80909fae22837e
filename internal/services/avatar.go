package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

const DefaultAvatarSize = 256

var avatarPalette = []color.NRGBA{
	{R: 0xE5, G: 0x73, B: 0x73, A: 0xFF},
	{R: 0xF0, G: 0x62, B: 0x92, A: 0xFF},
	{R: 0xBA, G: 0x68, B: 0xC8, A: 0xFF},
	{R: 0x79, G: 0x86, B: 0xCB, A: 0xFF},
	{R: 0x4F, G: 0xC3, B: 0xF7, A: 0xFF},
	{R: 0x4D, G: 0xB6, B: 0xAC, A: 0xFF},
	{R: 0x81, G: 0xC7, B: 0x84, A: 0xFF},
	{R: 0xFF, G: 0xB7, B: 0x4D, A: 0xFF},
	{R: 0xA1, G: 0x88, B: 0x7F, A: 0xFF},
	{R: 0x90, G: 0xA4, B: 0xAE, A: 0xFF},
}

type AvatarService interface {
	// RenderForCurrentUser draws the PNG avatar of the authenticated caller.
	RenderForCurrentUser(ctx context.Context) ([]byte, error)
	Render(u *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	size     int
	// Faces cache glyphs and are not safe for concurrent use, so one is
	// built per render from the shared parsed font.
	ttf *truetype.Font
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo, size int) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")
	if size <= 0 {
		size = DefaultAvatarSize
	}
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	return &avatarService{
		log:      serviceLog,
		userRepo: userRepo,
		size:     size,
		ttf:      ttf,
	}, nil
}

func (as *avatarService) RenderForCurrentUser(ctx context.Context) ([]byte, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "User not found")
	}
	buf, err := as.Render(u)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render draws initials on a circle whose color is stable per user id.
func (as *avatarService) Render(u *types.User) (bytes.Buffer, error) {
	size := float64(as.size)
	dc := gg.NewContext(as.size, as.size)

	dc.DrawCircle(size/2, size/2, size/2)
	dc.Clip()

	dc.SetColor(avatarColor(u))
	dc.DrawRectangle(0, 0, size, size)
	dc.Fill()

	dc.SetFontFace(truetype.NewFace(as.ttf, &truetype.Options{
		Size:    size * 0.4,
		DPI:     72,
		Hinting: font.HintingNone,
	}))
	dc.SetColor(color.White)
	dc.DrawStringAnchored(avatarInitials(u), size/2, size/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func avatarColor(u *types.User) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write(u.ID[:])
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// avatarInitials takes the first letters of the first two name words,
// falling back to the username.
func avatarInitials(u *types.User) string {
	words := strings.Fields(u.Name)
	var out []rune
	for _, w := range words {
		out = append(out, unicode.ToUpper([]rune(w)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		for _, r := range u.Username {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
			}
			if len(out) == 2 {
				break
			}
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
