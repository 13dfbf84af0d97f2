// Package challenge implements the arithmetic challenge-response check
// that keeps the most trivial bots away from the feedback form.
//
// The formula is public (the page's script solves it), so this is a spam
// filter and not a security boundary.
package challenge

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Issue returns a new challenge in [0, 2^32) from the system CSPRNG.
func Issue() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading random challenge")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Expected computes the accepted response for c.
// The sum is done in float64 and truncated toward zero; the browser
// computes it the same way, so integer math would disagree on some inputs.
func Expected(c uint32) int64 {
	f := float64(c)
	return int64(f/2.0 + f/3.0 - f/4.0)
}

// Verify reports whether response answers c. Non-numeric responses fail.
func Verify(c uint32, response string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(response), 10, 64)
	if err != nil {
		return false
	}
	return n == Expected(c)
}
