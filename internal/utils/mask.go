package utils

// MaskKey renders an API key for display: a fixed run of bullets plus the
// last four characters. Keys too short to keep a suffix are fully masked.
func MaskKey(key string) string {
	const bullets = "••••••••"
	if len(key) <= 4 {
		return bullets
	}
	return bullets + key[len(key)-4:]
}
