package impulse

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SolverMode is a set of flags selecting optional solver behavior.
type SolverMode uint32

const (
	// SolverRandomOrder reshuffles contact and friction rows every 8th iteration.
	SolverRandomOrder SolverMode = 1 << iota
	// SolverUseWarmstarting starts contact rows from last frame's impulses.
	SolverUseWarmstarting
	// SolverUseFrictionWarmstarting starts friction rows from last frame's impulses
	// and persists them at the end of the solve.
	SolverUseFrictionWarmstarting
	// SolverUse2FrictionDirections adds a second friction row per contact.
	SolverUse2FrictionDirections
	// SolverEnableFrictionDirectionCaching reuses friction directions across frames.
	SolverEnableFrictionDirectionCaching
	// SolverDisableVelocityDependentFrictionDirection derives friction directions
	// from the normal alone.
	SolverDisableVelocityDependentFrictionDirection
	// SolverSIMD selects the unrolled resolution kernels.
	SolverSIMD
)

var solverModeNames = []struct {
	flag SolverMode
	name string
}{
	{SolverRandomOrder, "random_order"},
	{SolverUseWarmstarting, "warmstarting"},
	{SolverUseFrictionWarmstarting, "friction_warmstarting"},
	{SolverUse2FrictionDirections, "two_friction_directions"},
	{SolverEnableFrictionDirectionCaching, "friction_direction_caching"},
	{SolverDisableVelocityDependentFrictionDirection, "no_velocity_dependent_friction_direction"},
	{SolverSIMD, "simd"},
}

// Names returns the names of the set flags in declaration order.
func (m SolverMode) Names() []string {
	names := []string{}
	for _, f := range solverModeNames {
		if m&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

func (m SolverMode) String() string {
	return strings.Join(m.Names(), "|")
}

// ParseSolverMode parses a list of flag names.
func ParseSolverMode(names []string) (SolverMode, error) {
	var m SolverMode
next:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, f := range solverModeNames {
			if f.name == n {
				m |= f.flag
				continue next
			}
		}
		return 0, fmt.Errorf("impulse: unknown solver mode %q", n)
	}
	return m, nil
}

// MarshalYAML writes the mode as a list of flag names.
func (m SolverMode) MarshalYAML() (any, error) {
	return m.Names(), nil
}

// UnmarshalYAML reads the mode from a list of flag names.
func (m *SolverMode) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return fmt.Errorf("impulse: solver mode: %w", err)
	}
	mode, err := ParseSolverMode(names)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config holds the parameters of one solve.
type Config struct {
	// Iterations is the number of sweeps over all rows. Must be non-negative.
	Iterations int `yaml:"iterations"`

	// ERP is the Baumgarte error reduction parameter, typically 0.2.
	ERP float64 `yaml:"erp"`

	// LinearSlop is the penetration allowed before correction kicks in.
	LinearSlop float64 `yaml:"linear_slop"`

	// WarmstartingFactor scales impulses carried over from the previous frame.
	WarmstartingFactor float64 `yaml:"warmstarting_factor"`

	// SplitImpulse keeps penetration recovery out of the reported velocity.
	SplitImpulse bool `yaml:"split_impulse"`

	// SplitImpulsePenetrationThreshold: contacts deeper than this (it is
	// negative) are recovered through split impulse when SplitImpulse is set.
	SplitImpulsePenetrationThreshold float64 `yaml:"split_impulse_penetration_threshold"`

	TimeStep float64 `yaml:"time_step"`

	// RestingContactRestitutionThreshold is the contact age, in frames,
	// beyond which restitution is ignored.
	RestingContactRestitutionThreshold int `yaml:"resting_contact_restitution_threshold"`

	// ContactBreakingThreshold is used by Space for manifolds it creates.
	ContactBreakingThreshold float64 `yaml:"contact_breaking_threshold"`

	SolverMode SolverMode `yaml:"solver_mode"`
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{
		Iterations:                         10,
		ERP:                                0.2,
		LinearSlop:                         0,
		WarmstartingFactor:                 1,
		SplitImpulse:                       false,
		SplitImpulsePenetrationThreshold:   -0.02,
		TimeStep:                           1.0 / 60.0,
		RestingContactRestitutionThreshold: 2,
		ContactBreakingThreshold:           0.02,
		SolverMode:                         SolverUseWarmstarting | SolverUseFrictionWarmstarting,
	}
}

// Validate reports configuration values the solver cannot work with.
func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("impulse: iterations must be non-negative, got %d", c.Iterations)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("impulse: time step must be positive, got %g", c.TimeStep)
	}
	if c.ERP < 0 || c.ERP > 1 {
		return fmt.Errorf("impulse: erp must be in [0, 1], got %g", c.ERP)
	}
	return nil
}

// ParseConfig decodes YAML over the defaults, so omitted keys keep their default value.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("impulse: unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("impulse: read config: %w", err)
	}
	return ParseConfig(data)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("impulse: marshal config: %w", err)
	}
	return b, nil
}
