package utils

import (
	"regexp"
)

var (
	wordRe  = regexp.MustCompile(`^\w+$`)
	emailRe = regexp.MustCompile(`^\w+([-+.]\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`)
	colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidUsername allows letters, numbers and underscores, 3-20 characters.
func ValidUsername(username string) bool {
	return wordRe.MatchString(username) && len(username) >= 3 && len(username) <= 20
}

// ValidPassword allows letters, numbers and underscores only.
func ValidPassword(password string) bool {
	return wordRe.MatchString(password)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidHexColor accepts #RGB and #RRGGBB.
func ValidHexColor(color string) bool {
	return colorRe.MatchString(color)
}
