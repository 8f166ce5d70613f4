// Package nepdate converts Gregorian (AD) calendar days to Bikram Sambat
// (BS), the local calendar shown alongside AD dates in exports.
package nepdate

import (
	"fmt"
	"time"

	"github.com/opensource-nepal/go-nepali/dateConverter"
)

const dayFormat = "2006-01-02"

// ToBS converts an AD day key ("2006-01-02") to its BS equivalent in the
// same format.
func ToBS(day string) (string, error) {
	t, err := time.Parse(dayFormat, day)
	if err != nil {
		return "", fmt.Errorf("nepdate: bad day %q: %w", day, err)
	}
	bs, err := dateConverter.EnglishToNepali(t.Year(), int(t.Month()), t.Day())
	if err != nil {
		return "", fmt.Errorf("nepdate: convert %s: %w", day, err)
	}
	return fmt.Sprintf("%04d-%02d-%02d", bs[0], bs[1], bs[2]), nil
}
