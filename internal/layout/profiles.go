package layout

import "fmt"

// Built-in render profiles. Portrait matches vertical short-form targets,
// where platform UI overlays demand the widest margins.
var builtinProfiles = map[string]Profile{
	"portrait": {
		Name:                     "portrait",
		FrameWidth:               1080,
		FrameHeight:              1920,
		FontSize:                 39,
		OutlinePx:                3,
		ShadowPx:                 2,
		FontName:                 "Arial",
		MarginHorizontalFraction: 0.07,
		MarginVerticalFraction:   0.12,
	},
	"landscape": {
		Name:                     "landscape",
		FrameWidth:               1920,
		FrameHeight:              1080,
		FontSize:                 44,
		OutlinePx:                3,
		ShadowPx:                 2,
		FontName:                 "Arial",
		MarginHorizontalFraction: 0.07,
		MarginVerticalFraction:   0.10,
	},
	"square": {
		Name:                     "square",
		FrameWidth:               1080,
		FrameHeight:              1080,
		FontSize:                 36,
		OutlinePx:                3,
		ShadowPx:                 2,
		FontName:                 "Arial",
		MarginHorizontalFraction: 0.07,
		MarginVerticalFraction:   0.10,
	},
}

// ProfileByName returns a built-in render profile
func ProfileByName(name string) (Profile, error) {
	profile, ok := builtinProfiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown render profile %q", name)
	}
	return profile, nil
}

// ProfileNames lists the built-in render profile names
func ProfileNames() []string {
	return []string{"landscape", "portrait", "square"}
}
