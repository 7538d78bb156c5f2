package settings

import (
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/omath"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a simulation.
type Settings struct {
	Simulation struct {
		// TickRate is the number of ticks per second.
		TickRate int
		// Gravity is the downward acceleration applied to actors and dynamic bodies.
		Gravity float64
		// Workers is the number of actors updated in parallel. Zero or less updates every actor
		// at once.
		Workers int
	}
	Character CharacterSettings
	Debug     struct {
		LogLevel      string
		StatsView     bool
		StatsViewAddr string
		// SentryDSN enables crash reporting when set.
		SentryDSN string
	}
}

// CharacterSettings are the properties shared by every actor.
type CharacterSettings struct {
	Height float64
	Radius float64

	MaxSlopeAngle                     float64
	SnapToGround                      bool
	GroundSnappingDistance            float64
	MaxContinuousCollisionsIterations int
	MaxOverlapDecollisionIterations   int

	StepHandling                                 bool
	MaxStepHeight                                float64
	ExtraStepChecksDistance                      float64
	PreventGroundingWhenMovingTowardsNoGrounding bool
	// MaxDownwardSlopeChangeAngle ungrounds actors walking onto a steeper downward slope change,
	// in degrees. Zero disables the check.
	MaxDownwardSlopeChangeAngle float64

	SimulateDynamicBody   bool
	Mass                  float64
	DetectMovingPlatforms bool
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Simulation.TickRate = 60
	s.Simulation.Gravity = 9.81

	s.Character = CharacterSettings{
		Height:                            1.8,
		Radius:                            0.3,
		MaxSlopeAngle:                     60,
		SnapToGround:                      true,
		GroundSnappingDistance:            0.5,
		MaxContinuousCollisionsIterations: 8,
		MaxOverlapDecollisionIterations:   2,
		StepHandling:                      true,
		MaxStepHeight:                     0.5,
		ExtraStepChecksDistance:           0.1,
		SimulateDynamicBody:               true,
		Mass:                              1,
		DetectMovingPlatforms:             true,
	}

	s.Debug.LogLevel = "info"
	s.Debug.StatsViewAddr = "localhost:18066"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will
// return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return oerror.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return oerror.New("failed encoding default settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oerror.New("failed creating settings file: %v", err)
	}
	return nil
}

// Load reads the settings file at path, or creates it with the default settings if it does not
// exist yet. Keys missing from the file keep their default value.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, SaveDefault(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, oerror.New("error reading settings: %v", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, oerror.New("error decoding settings: %v", err)
	}
	if s.Simulation.TickRate <= 0 {
		return Settings{}, oerror.New("tick rate must be positive, got %d", s.Simulation.TickRate)
	}
	if s.Character.Radius <= 0 || s.Character.Height < 2*s.Character.Radius {
		return Settings{}, oerror.New("character of height %v cannot have radius %v", s.Character.Height, s.Character.Radius)
	}
	return s, nil
}

// DeltaTime returns the duration of a tick in seconds.
func (s Settings) DeltaTime() float32 {
	return 1 / float32(s.Simulation.TickRate)
}

// Gravity returns the gravity vector.
func (s Settings) Gravity() mgl32.Vec3 {
	return mgl32.Vec3{0, -float32(s.Simulation.Gravity), 0}
}

// LogLevel parses the configured log level, falling back to info.
func (s Settings) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Debug.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Properties returns actor properties built from the character settings.
func (c CharacterSettings) Properties() character.Properties {
	p := character.DefaultProperties()
	p.MaxGroundedSlopeDotProduct = omath.DotRatioFromAngle(float32(c.MaxSlopeAngle))
	p.SnapToGround = c.SnapToGround
	p.GroundSnappingDistance = float32(c.GroundSnappingDistance)
	p.MaxContinuousCollisionsIterations = c.MaxContinuousCollisionsIterations
	p.MaxOverlapDecollisionIterations = c.MaxOverlapDecollisionIterations
	p.SimulateDynamicBody = c.SimulateDynamicBody
	p.Mass = float32(c.Mass)
	p.DetectMovingPlatforms = c.DetectMovingPlatforms

	p.Step.StepHandling = c.StepHandling
	p.Step.MaxStepHeight = float32(c.MaxStepHeight)
	p.Step.ExtraStepChecksDistance = float32(c.ExtraStepChecksDistance)
	p.Step.PreventGroundingWhenMovingTowardsNoGrounding = c.PreventGroundingWhenMovingTowardsNoGrounding
	p.Step.HasMaxDownwardSlopeChangeAngle = c.MaxDownwardSlopeChangeAngle > 0
	if p.Step.HasMaxDownwardSlopeChangeAngle {
		p.Step.MaxDownwardSlopeChangeAngle = float32(c.MaxDownwardSlopeChangeAngle)
	}
	return p
}
