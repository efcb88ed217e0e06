package tui

import "hash/fnv"

var avatarColors = []string{
	"blue", "red", "green", "navy", "yellow", "purple", "fuchsia", "gray",
}

// avatarColor picks a stable color for a user's initial from their ID, so the
// roster looks the same on every refresh.
func avatarColor(userID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return avatarColors[h.Sum32()%uint32(len(avatarColors))]
}

// initial returns the display initial for a name.
func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return "?"
}
