// Package validation holds the field validators for profile input. Every
// validator is a pure function over one field and reports failures as *Error.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pageza/userprofile/backend/internal/models"
)

const (
	MaxNameLength   = 100
	MaxInfoLength   = 1000
	MaxAvatarSize   = 1 << 20
	MinBirthYear    = 1900
	MinAge          = 18
	birthDateLayout = "2006-01-02"
)

// AllowedAvatarTypes are the sniffed MIME types accepted for avatars.
var AllowedAvatarTypes = []string{"image/jpeg", "image/png"}

// Error is a client error tied to a single input field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Name trims and lower-cases a personal name. Only English letters, hyphens
// and apostrophes are allowed, and the name must start with a letter.
func Name(field, raw string) (string, *Error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fail(field, "must not be empty")
	}
	if len(name) > MaxNameLength {
		return "", fail(field, "must be at most %d characters", MaxNameLength)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case (r == '-' || r == '\'') && i > 0:
		default:
			return "", fail(field, "%s contains non-english letters", name)
		}
	}
	return strings.ToLower(name), nil
}

// Gender accepts only the values in models.Genders.
func Gender(raw string) (models.Gender, *Error) {
	g := models.Gender(strings.TrimSpace(raw))
	if !g.Valid() {
		names := make([]string, len(models.Genders))
		for i, known := range models.Genders {
			names[i] = string(known)
		}
		return "", fail("gender", "must be one of: %s", strings.Join(names, ", "))
	}
	return g, nil
}

// BirthDate parses a YYYY-MM-DD date and checks it against now.
func BirthDate(raw string, now time.Time) (time.Time, *Error) {
	d, err := time.Parse(birthDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fail("date_of_birth", "must be a date in YYYY-MM-DD format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, fail("date_of_birth", "must not be in the future")
	}
	if d.Year() < MinBirthYear {
		return time.Time{}, fail("date_of_birth", "year must be %d or later", MinBirthYear)
	}
	if age(d, today) < MinAge {
		return time.Time{}, fail("date_of_birth", "you must be at least %d years old", MinAge)
	}
	return d, nil
}

func age(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}

// Info rejects blank text and text longer than MaxInfoLength runes.
func Info(raw string) (string, *Error) {
	if strings.TrimSpace(raw) == "" {
		return "", fail("info", "cannot be empty or contain only spaces")
	}
	if n := len([]rune(raw)); n > MaxInfoLength {
		return "", fail("info", "must be at most %d characters", MaxInfoLength)
	}
	return raw, nil
}

// Avatar checks size and sniffs the content type from the bytes themselves;
// the declared file name and header are ignored. It returns the detected
// MIME type.
func Avatar(data []byte) (string, *Error) {
	if len(data) == 0 {
		return "", fail("avatar", "file is empty")
	}
	if len(data) > MaxAvatarSize {
		return "", fail("avatar", "image size exceeds %d MB", MaxAvatarSize>>20)
	}
	mt := mimetype.Detect(data)
	for _, allowed := range AllowedAvatarTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fail("avatar", "unsupported image format %s, use one of: %s",
		mt.String(), strings.Join(AllowedAvatarTypes, ", "))
}
