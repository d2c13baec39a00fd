package utils

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const idCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var flightTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// GenerateBookingID mints the customer-facing booking reference:
// BK + YYMMDD + last four phone digits + base36 timestamp + random tail.
// The timestamp keeps IDs minted in the same second distinct.
func GenerateBookingID(phone string, now time.Time) string {
	datePart := now.UTC().Format("060102")

	digits := keepDigits(phone)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}

	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	return "BK" + datePart + digits + timestamp + randomToken(3)
}

// ValidFlightTime reports whether t looks like an HH:MM slot.
func ValidFlightTime(t string) bool {
	return flightTimePattern.MatchString(t)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}
