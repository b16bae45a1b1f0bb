package utils

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugAttempts = 100

// GenerateUniqueSlug derives a URL-safe hotel slug from base, appending -2, -3
// and so on until no hotel uses it.
func GenerateUniqueSlug(tx *gorm.DB, base string) (string, error) {
	root := slug.Make(base)
	if root == "" {
		root = "hotel"
	}

	candidate := root
	for i := 2; i <= maxSlugAttempts+1; i++ {
		var hotel models.Hotel
		err := tx.Select("id").Where("slug = ?", candidate).First(&hotel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", root, i)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	return s != "" && slug.IsSlug(s)
}
