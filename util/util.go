package util

import (
	"sort"
	"strings"

	"github.com/fogleman/ease"
	gease "github.com/tanema/gween/ease"
)

// A Curve maps normalised progress in [0, 1] to eased progress.
type Curve func(t float64) float64

var curves = map[string]Curve{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
}

var tweens = map[string]gease.TweenFunc{
	"linear":     gease.Linear,
	"inquad":     gease.InQuad,
	"outquad":    gease.OutQuad,
	"inoutquad":  gease.InOutQuad,
	"incubic":    gease.InCubic,
	"outcubic":   gease.OutCubic,
	"inoutcubic": gease.InOutCubic,
	"insine":     gease.InSine,
	"outsine":    gease.OutSine,
	"inoutsine":  gease.InOutSine,
}

func normalise(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}

// Easing looks up an easing curve by name, e.g. "in-out-quad".
func Easing(name string) (Curve, bool) {
	c, ok := curves[normalise(name)]
	return c, ok
}

// Tween looks up a gween easing function by name.
func Tween(name string) (gease.TweenFunc, bool) {
	f, ok := tweens[normalise(name)]
	return f, ok
}

// EasingNames lists the names accepted by Easing and Tween.
func EasingNames() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
