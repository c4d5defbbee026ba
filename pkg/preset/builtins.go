package preset

func ptr[T any](v T) *T { return &v }

// builtins are the presets compiled into the binary. Keep descriptions to a
// single short phrase; the CLI lists them in a single table column.
var builtins = map[string]Preset{
	"classic": {
		Description: "Mid-band luminance selection with ascending lightness",
		Low:         ptr(0.2),
		High:        ptr(0.8),
		Channel:     ptr("luminance"),
		Metric:      ptr("lightness"),
		Gamma:       ptr(1.2),
	},
	"glitch": {
		Description: "Aggressive hue-ordered streaks across almost everything",
		Low:         ptr(0.05),
		High:        ptr(0.95),
		Metric:      ptr("hue"),
		Descending:  ptr(true),
		Gamma:       ptr(1.0),
	},
	"smear": {
		Description: "Long bright smears through the midtones and highlights",
		Low:         ptr(0.0),
		High:        ptr(0.85),
		Metric:      ptr("lightness"),
		Gamma:       ptr(1.1),
	},
	"dusk": {
		Description: "Dark descending streaks confined to the shadows",
		Low:         ptr(0.0),
		High:        ptr(0.35),
		Metric:      ptr("luminance"),
		Descending:  ptr(true),
		Gamma:       ptr(1.4),
	},
	"static": {
		Description: "Jittered band edges for a noisy broken-signal look",
		Low:         ptr(0.25),
		High:        ptr(0.75),
		Jitter:      ptr(0.15),
		Metric:      ptr("saturation"),
		Gamma:       ptr(1.0),
	},
	"rainfall": {
		Description: "Vertical streaks falling through the saturation channel",
		Low:         ptr(0.2),
		High:        ptr(0.9),
		Channel:     ptr("saturation"),
		Direction:   ptr("vertical"),
		Metric:      ptr("lightness"),
		Gamma:       ptr(1.2),
	},
}
