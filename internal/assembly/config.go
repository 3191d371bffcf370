// Package assembly implements the top-level synthesis pipeline of §4.7:
// validate, place, order networks, route, and overlay into one voxel map.
package assembly

import (
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/router"
)

// OnUnroutable selects what Synthesize does when a network's router run
// fails (§4.7 step 4).
type OnUnroutable string

const (
	OnUnroutableSkip  OnUnroutable = "skip"
	OnUnroutableAbort OnUnroutable = "abort"
)

// Config bounds one synthesize run; it is YAML-loadable the way
// tuning.Config is, so a CLI invocation can read it from a flag-pointed
// file in addition to --seed/--temperature/--alpha/--steps/--on-unroutable
// overrides.
type Config struct {
	Seed        int64   `yaml:"seed"`
	BoundingCube int    `yaml:"bounding_cube"`
	Temperature0 float64 `yaml:"temperature"`
	Alpha        float64 `yaml:"alpha"`
	Steps        int     `yaml:"steps"`
	Workers      int     `yaml:"workers"`

	XZPadding           int          `yaml:"xz_padding"`
	MaxPlacementAttempts int         `yaml:"max_placement_attempts"`
	UseRoutingEnergy    bool         `yaml:"use_routing_energy"`
	ExtendedEnergyTerms bool         `yaml:"extended_energy_terms"`

	RouterTurnPenalty float64 `yaml:"router_turn_penalty"`
	RouterMaxExplored int     `yaml:"router_max_explored"`

	OnUnroutable OnUnroutable `yaml:"on_unroutable"`

	// Progress, if non-nil, is relayed from the placement search's
	// worker 0 (not YAML-configurable; set by interactive CLI callers
	// only).
	Progress func(step int, temperature, bestEnergy float64) `yaml:"-"`
}

// Default returns a Config with every field set to its documented
// default, matching §4.6/§4.5's default constants.
func Default() Config {
	return Config{
		Seed:                0,
		BoundingCube:        64,
		Temperature0:        10,
		Alpha:               0.999,
		Steps:               60000,
		Workers:             4,
		XZPadding:           1,
		MaxPlacementAttempts: 40,
		RouterTurnPenalty:   0.5,
		RouterMaxExplored:   20000,
		OnUnroutable:        OnUnroutableSkip,
	}
}

// Load reads a YAML config file, starting from Default and overriding
// only the fields present in the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, rherrors.WrapInternal(err, "parsing assembly config %q", path)
	}
	return cfg, nil
}

func (c Config) boundingBox() geom.Box {
	n := c.BoundingCube
	if n <= 0 {
		n = 1
	}
	return geom.Box{Min: geom.Pos{}, Max: geom.Pos{X: n - 1, Y: n - 1, Z: n - 1}}
}

func (c Config) rng() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

func (c Config) routerOptions() router.Options {
	return router.Options{TurnPenalty: c.RouterTurnPenalty, MaxExplored: c.RouterMaxExplored}
}
