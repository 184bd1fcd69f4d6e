// Package catalog holds the static fallback tables used when generative
// calls are disabled or fail. Lookup is first-match-wins over an explicitly
// ordered keyword list; overlapping keywords resolve by list position.
package catalog

import (
	"math/rand/v2"
	"strings"
)

type entry struct {
	keyword     string
	description string
	imageRef    string
}

// entries is scanned in order; the first keyword contained in the normalized
// theme wins. "hero" intentionally also matches "superhero".
var entries = []entry{
	{"neverland", "Think Peter Pan vibes! Dress as a pirate, fairy, or even a lost boy. A mix of adventure and whimsy.", "/fallback/neverland.jpg"},
	{"nineties", "Baggy jeans, crop tops, and bucket hats. Bring back the 90s with bold colors and retro sneakers.", "/fallback/nineties.jpg"},
	{"elegant", "Classic suits, cocktail dresses, and sophisticated accessories. A night of glamour awaits.", "/fallback/elegant.jpg"},
	{"hero", "Capes, masks, and heroic outfits. Dress like your favorite comic book legend.", "/fallback/hero.jpg"},
	{"anime", "Cosplay as your favorite anime character or wear Japanese street fashion styles.", "/fallback/anime.jpg"},
	{"pyjama", "Cozy onesies, fluffy slippers, and playful sleepwear. Comfort is the dress code.", "/fallback/pyjama.jpg"},
	{"futuristic", "Metallic tones, LED glasses, and cyberpunk aesthetics. The future is now!", "/fallback/futuristic.jpg"},
	{"beach", "Floral shirts, bikinis, sandals, and sunglasses. Perfect for a tropical party.", "/fallback/beach.jpg"},
	{"black", "Monochrome outfits in stylish black and white tones. Minimalist and chic.", "/fallback/black.jpg"},
}

const (
	defaultDescription = "Express yourself with a creative outfit matching the theme!"
	defaultImageRef    = "/fallback/default.jpg"
)

// themes is the general pool for random theme suggestions.
var themes = []string{
	"Animal Pyjama Party 🦄",
	"Neverland Adventure 🏴‍☠️",
	"Anime Cosplay 🎌",
	"Gender Swap 💃🕺",
	"Superhero Night 🦸‍♂️",
	"Nineties Throwback 🎶",
	"Black and White 🖤🤍",
	"Futuristic Neon 🔮",
	"Beach Party 🌴",
	"Elegant Dinner 🥂",
}

// themesByCategory narrows the pool by event category.
var themesByCategory = map[string][]string{
	"party":    {"Neon Glow", "Great Gatsby"},
	"business": {"Elegant Formal", "Corporate Chic"},
	"date":     {"Romantic Red", "Moonlight Dinner"},
}

func normalize(theme string) string {
	return strings.ToLower(strings.TrimSpace(theme))
}

func find(theme string) (entry, bool) {
	normalized := normalize(theme)
	if normalized == "" {
		return entry{}, false
	}
	for _, e := range entries {
		if strings.Contains(normalized, e.keyword) {
			return e, true
		}
	}
	return entry{}, false
}

// DescriptionFor returns the outfit description mapped to the first keyword
// found in theme, or the default description.
func DescriptionFor(theme string) string {
	if e, ok := find(theme); ok {
		return e.description
	}
	return defaultDescription
}

// ImageFor returns the illustration reference mapped to the first keyword
// found in theme, or the default image.
func ImageFor(theme string) string {
	if e, ok := find(theme); ok {
		return e.imageRef
	}
	return defaultImageRef
}

// RandomTheme draws uniformly from the pool for the given event category,
// falling back to the general pool for an unknown or empty category.
func RandomTheme(category string) string {
	pool := themes
	if p, ok := themesByCategory[normalize(category)]; ok {
		pool = p
	}
	return pool[rand.IntN(len(pool))]
}
