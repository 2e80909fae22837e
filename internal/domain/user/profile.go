package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PreferenceTallies holds the learned per-feature affinity counters.
// A missing key scores 0.
type PreferenceTallies struct {
	Brands      map[string]int `json:"brands"`
	Styles      map[string]int `json:"styles"`
	Colors      map[string]int `json:"colors"`
	PriceRanges map[string]int `json:"priceRanges"`
	Categories  map[string]int `json:"categories"`
	Patterns    map[string]int `json:"patterns"`
}

func NewPreferenceTallies() PreferenceTallies {
	return PreferenceTallies{
		Brands:      map[string]int{},
		Styles:      map[string]int{},
		Colors:      map[string]int{},
		PriceRanges: map[string]int{},
		Categories:  map[string]int{},
		Patterns:    map[string]int{},
	}
}

// EnsureInit allocates any nil dimension map.
func (t *PreferenceTallies) EnsureInit() {
	if t.Brands == nil {
		t.Brands = map[string]int{}
	}
	if t.Styles == nil {
		t.Styles = map[string]int{}
	}
	if t.Colors == nil {
		t.Colors = map[string]int{}
	}
	if t.PriceRanges == nil {
		t.PriceRanges = map[string]int{}
	}
	if t.Categories == nil {
		t.Categories = map[string]int{}
	}
	if t.Patterns == nil {
		t.Patterns = map[string]int{}
	}
}

// Clone returns a deep copy.
func (t PreferenceTallies) Clone() PreferenceTallies {
	return PreferenceTallies{
		Brands:      cloneCounts(t.Brands),
		Styles:      cloneCounts(t.Styles),
		Colors:      cloneCounts(t.Colors),
		PriceRanges: cloneCounts(t.PriceRanges),
		Categories:  cloneCounts(t.Categories),
		Patterns:    cloneCounts(t.Patterns),
	}
}

func cloneCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Preferences are the explicit choices captured during onboarding.
type Preferences struct {
	ShoeSize         *float64 `json:"shoeSize,omitempty"`
	ShirtSize        string   `json:"shirtSize,omitempty"`
	PantsSize        string   `json:"pantsSize,omitempty"`
	ShortSize        string   `json:"shortSize,omitempty"`
	StylePreferences []string `json:"stylePreferences"`
	ColorPreferences []string `json:"colorPreferences"`
	FavoriteBrands   []string `json:"favoriteBrands"`
	PriceRange       string   `json:"priceRange,omitempty"`
}

// UserProfile is the swipe state of a user. Version is bumped on every write
// and guards concurrent read-modify-write cycles.
type UserProfile struct {
	ID                uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	User              *User                                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	LikedItems        datatypes.JSONSlice[uuid.UUID]        `gorm:"column:liked_items" json:"likedItems"`
	DislikedItems     datatypes.JSONSlice[uuid.UUID]        `gorm:"column:disliked_items" json:"dislikedItems"`
	PreferenceTallies datatypes.JSONType[PreferenceTallies] `gorm:"column:preference_tallies" json:"preferenceTallies"`
	Preferences       datatypes.JSONType[Preferences]       `gorm:"column:preferences" json:"preferences"`
	Version           int                                   `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserProfile) TableName() string { return "user_profile" }

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.LikedItems == nil {
		p.LikedItems = datatypes.JSONSlice[uuid.UUID]{}
	}
	if p.DislikedItems == nil {
		p.DislikedItems = datatypes.JSONSlice[uuid.UUID]{}
	}
	t := p.PreferenceTallies.Data()
	t.EnsureInit()
	p.PreferenceTallies = datatypes.NewJSONType(t)
	return nil
}

// NewUserProfile returns an empty profile for userID.
func NewUserProfile(userID uuid.UUID) *UserProfile {
	return &UserProfile{
		ID:                uuid.New(),
		UserID:            userID,
		LikedItems:        datatypes.JSONSlice[uuid.UUID]{},
		DislikedItems:     datatypes.JSONSlice[uuid.UUID]{},
		PreferenceTallies: datatypes.NewJSONType(NewPreferenceTallies()),
		Preferences:       datatypes.NewJSONType(Preferences{}),
	}
}
