package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderUnisex         = "unisex"
	GenderNonBinary      = "non-binary"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer not to say"
)

var Genders = []string{GenderMale, GenderFemale, GenderUnisex, GenderNonBinary, GenderOther, GenderPreferNotToSay}

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password       string     `gorm:"not null;column:password" json:"-"`
	Name           string     `gorm:"column:name" json:"name"`
	Bio            string     `gorm:"column:bio" json:"bio"`
	Gender         string     `gorm:"column:gender" json:"gender"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"dateOfBirth,omitempty"`
	ProfilePicture string     `gorm:"column:profile_picture" json:"profilePicture"`
	LastActive     time.Time  `gorm:"column:last_active;index" json:"lastActive"`

	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.LastActive.IsZero() {
		u.LastActive = time.Now().UTC()
	}
	return nil
}

// NormalizeGender lowercases and trims a gender value. Unknown values are
// returned as-is so validation can reject them.
func NormalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func IsValidGender(g string) bool {
	g = NormalizeGender(g)
	if g == "" {
		return true
	}
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}
