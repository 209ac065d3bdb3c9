package model

import (
	"crypto/md5" //nolint:gosec // not used for security, only for stable color hashing
	"fmt"
	"strings"
)

// cpuColor is the fixed swatch for built-in CPU opponents.
const cpuColor = "#9E9E9E"

// ColorFor derives a stable display color from a player name. Names starting
// with "cpu" (any case) share a neutral gray; everyone else gets an HSL hue
// hashed from the name, with saturation and lightness pinned for readability
// on the dark theme.
func ColorFor(name string) string {
	if strings.HasPrefix(strings.ToUpper(name), "CPU") {
		return cpuColor
	}
	sum := md5.Sum([]byte(name)) //nolint:gosec // stable hash, not a credential
	return fmt.Sprintf("hsl(%d, 75%%, 60%%)", hueOf(sum[:]))
}

// hueOf reduces a digest to a hue in [0, 360) as the big-endian integer value
// of the digest modulo 360.
func hueOf(digest []byte) int {
	hue := 0
	for _, b := range digest {
		hue = (hue*256 + int(b)) % 360
	}
	return hue
}
