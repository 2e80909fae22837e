package services

import (
	"net/mail"
	"regexp"
	"unicode"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/catalog"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateRegistration(in RegisterInput) error {
	if err := validateUsername(in.Username); err != nil {
		return err
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.ConfirmPassword == "" {
		return apierr.Validation("invalid_password", "Confirm Password is required.")
	}
	if in.ConfirmPassword != in.Password {
		return apierr.Validation("invalid_password", "Passwords do not match.")
	}
	return nil
}

func validateUsername(username string) error {
	switch {
	case username == "":
		return apierr.Validation("invalid_username", "Username is required.")
	case len(username) < 3 || len(username) > 30:
		return apierr.Validation("invalid_username", "Username must be between 3 and 30 characters.")
	case !usernamePattern.MatchString(username):
		return apierr.Validation("invalid_username", "Username can only contain letters, numbers, and underscores.")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apierr.Validation("invalid_email", "Email is required.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apierr.Validation("invalid_email", "Invalid email format.")
	}
	return nil
}

func validatePassword(pw string) error {
	if pw == "" {
		return apierr.Validation("invalid_password", "Password is required.")
	}
	if len(pw) < 8 {
		return apierr.Validation("invalid_password", "Password must be at least 8 characters long.")
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return apierr.Validation("invalid_password",
			"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character.")
	}
	return nil
}

// validatePreferences checks explicit preferences against the catalog vocabulary.
func validatePreferences(p types.Preferences) error {
	if !catalog.AllIn(catalog.Styles, p.StylePreferences) {
		return apierr.Validation("invalid_preferences", "Invalid style preference.")
	}
	if !catalog.AllIn(catalog.Colors, p.ColorPreferences) {
		return apierr.Validation("invalid_preferences", "Invalid color preference.")
	}
	if !catalog.AllIn(catalog.Brands, p.FavoriteBrands) {
		return apierr.Validation("invalid_preferences", "Invalid brand preference.")
	}
	if p.PriceRange != "" && !catalog.In(catalog.PriceRanges, p.PriceRange) {
		return apierr.Validation("invalid_preferences", "Invalid price range.")
	}
	if p.ShoeSize != nil && (*p.ShoeSize < catalog.MinShoeSize || *p.ShoeSize > catalog.MaxShoeSize) {
		return apierr.Validation("invalid_preferences", "Shoe size must be between 4 and 23.")
	}
	for _, s := range []string{p.ShirtSize, p.ShortSize} {
		if s != "" && !catalog.In(catalog.LetterSizes, s) {
			return apierr.Validation("invalid_preferences", "Invalid size: "+s)
		}
	}
	if p.PantsSize != "" && !catalog.In(catalog.PantsSizes, p.PantsSize) {
		return apierr.Validation("invalid_preferences", "Invalid pants size: "+p.PantsSize)
	}
	return nil
}

func validateGender(g string) error {
	if !user.IsValidGender(g) {
		return apierr.Validation("invalid_gender", "Invalid gender.")
	}
	return nil
}
