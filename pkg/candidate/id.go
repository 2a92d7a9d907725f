package candidate

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

const (
	idPrefix     = "candidate_"
	suffixLength = 9
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"

	// largest multiple of len(alphabet) below 256; bytes at or above it are resampled
	rejectAbove = 252
)

// Pattern matches identifiers minted by IDGenerator.
var Pattern = regexp.MustCompile(`^candidate_\d+_[0-9a-z]{9}$`)

func IsValidID(id string) bool {
	return Pattern.MatchString(id)
}

// IDGenerator mints candidate_<unix millis>_<9 base36 chars> identifiers.
type IDGenerator struct {
	now  func() time.Time
	rand io.Reader
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now, rand: rand.Reader}
}

// NewIDGeneratorWith is used by tests to pin the clock and entropy source.
func NewIDGeneratorWith(now func() time.Time, r io.Reader) *IDGenerator {
	return &IDGenerator{now: now, rand: r}
}

func (g *IDGenerator) Next() (string, error) {
	suffix := make([]byte, 0, suffixLength)
	buf := make([]byte, suffixLength*2)
	for len(suffix) < suffixLength {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= rejectAbove {
				continue
			}
			suffix = append(suffix, alphabet[int(b)%len(alphabet)])
			if len(suffix) == suffixLength {
				break
			}
		}
	}
	return idPrefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "_" + string(suffix), nil
}
