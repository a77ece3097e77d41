package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	reInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	reDashes  = regexp.MustCompile(`-+`)
	reTrialID = regexp.MustCompile(`^[0-9]{8}-[0-9]{6}Z-[a-z0-9-]+-[0-9a-f]{6}$`)
)

// NewTrialID names one trial's artifacts: YYYYMMDD-HHMMSSZ-<tool>-<mode>-<hex6>.
// The random suffix keeps two trials started within the same second apart.
func NewTrialID(now time.Time, tool, mode string) (string, error) {
	prefix := now.UTC().Format("20060102-150405Z")

	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return prefix + "-" + SanitizeComponent(tool) + "-" + SanitizeComponent(mode) + "-" + hex.EncodeToString(b[:]), nil
}

func IsValidTrialID(s string) bool {
	return reTrialID.MatchString(strings.TrimSpace(s))
}

// NewScratchName returns a collision-free directory name for a disposable
// workspace. A crashed earlier run's leftover scratch dir can never be
// mistaken for the current one.
func NewScratchName(prefix string) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	p := SanitizeComponent(prefix)
	if p == "" {
		p = "scratch"
	}
	return fmt.Sprintf("%s-%s", p, hex.EncodeToString(b[:])), nil
}

func SanitizeComponent(s string) string {
	// Keep this strict and stable: lower + [a-z0-9-], collapse dashes.
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "_", "-")
	v = reInvalid.ReplaceAllString(v, "-")
	v = reDashes.ReplaceAllString(v, "-")
	v = strings.Trim(v, "-")
	return v
}
