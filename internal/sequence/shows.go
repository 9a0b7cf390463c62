package sequence

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/render"
)

const Version = "seq.v1"

// Sweep is a single clip running s on a star shaped g.
func Sweep(s render.Settings, g layout.Geometry) Program {
	return Program{
		Version: Version,
		Clips: []Clip{{
			Name:           "sweep-" + string(s.Mode),
			Mode:           s.Mode,
			DurationS:      s.Duration.Seconds(),
			Geometry:       &g,
			Fuzziness:      s.Fuzziness,
			Speed:          s.Speed,
			Boomerang:      s.Boomerang,
			CenterMinValue: s.CenterMinValue,
			Unscaled:       s.Unscaled,
			Spoke:          s.Spoke,
		}},
	}
}

// Extravaganza is the party show: two horizontal passes, a vertical one, a
// dark beat, a ring and a spinning spoke.
func Extravaganza() Program {
	clip := func(name string, m render.Mode, d float64) Clip {
		return Clip{
			Name:           name,
			Mode:           m,
			DurationS:      d,
			Fuzziness:      0.7,
			Speed:          0.6,
			CenterMinValue: 0.05,
			Unscaled:       true,
			Spoke:          true,
		}
	}
	x2 := clip("x-short", render.ModeX, 3)
	x2.OffAfterS = 1
	return Program{
		Version: Version,
		Clips: []Clip{
			clip("x", render.ModeX, 6),
			clip("y", render.ModeY, 7),
			x2,
			clip("radial", render.ModeRadial, 4),
			clip("angular", render.ModeAngular, 12),
		},
	}
}

// ExtravaganzaBase is the ceiling, pacing and size the party show was
// designed for.
func ExtravaganzaBase() render.Settings {
	return render.Settings{MaxBrightness: 0.3, FPS: 30, StarSize: 5}
}

var builtins = map[string]func() Program{
	"extravaganza": Extravaganza,
}

// Builtin returns a named program that needs no settings.
func Builtin(name string) (Program, bool) {
	f, ok := builtins[name]
	if !ok {
		return Program{}, false
	}
	return f(), true
}

func Builtins() []string {
	out := make([]string, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadProgram reads a YAML program from path.
func LoadProgram(path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Program{}, err
	}
	var p Program
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Program{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if p.Version == "" {
		p.Version = Version
	}
	return p, nil
}

// SaveProgram writes p to path as YAML.
func SaveProgram(path string, p Program) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
