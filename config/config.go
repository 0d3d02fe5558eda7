package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/routekernel/compressor"
	"github.com/katalvlaran/routekernel/edgebased"
	"github.com/katalvlaran/routekernel/facade"
	"github.com/katalvlaran/routekernel/nodegraph"
	"github.com/katalvlaran/routekernel/scc"
	"github.com/katalvlaran/routekernel/spatial"
)

// fileConfig is the on-disk YAML shape, kept unexported and separate from
// the resolved Config so defaulting happens in one place (Load), mirroring
// the teacher's yamlConfig/resolved-struct split.
type fileConfig struct {
	Paths struct {
		Input     string `yaml:"input"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"paths"`

	Build struct {
		Headroom              float64 `yaml:"headroom"`
		TinyThreshold         int     `yaml:"tiny_threshold"`
		SpatialFanout         int     `yaml:"spatial_fanout"`
		SpatialLeafCapacity   int     `yaml:"spatial_leaf_capacity"`
		UTurnPenalty          uint32  `yaml:"u_turn_penalty"`
		SignalPenalty         uint32  `yaml:"signal_penalty"`
		RepresentativeMeters  float64 `yaml:"representative_distance_meters"`
		BarrierStraightDegree float64 `yaml:"barrier_straight_threshold_degrees"`
	} `yaml:"build"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Config is the resolved, defaulted configuration used to construct every
// build-pipeline and query-side component.
type Config struct {
	InputPath string
	OutputDir string

	Headroom              float64
	TinyThreshold         int
	SpatialFanout         int
	SpatialLeafCapacity   int
	UTurnPenalty          uint32
	SignalPenalty         uint32
	RepresentativeMeters  float64
	BarrierStraightDegree float64

	logger *slog.Logger
}

// Load reads and validates a YAML config file from path, applying defaults
// for any field the file omits.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses a YAML config from r, for callers that already hold an
// open reader (tests, embedded configs).
func Decode(r io.Reader) (*Config, error) {
	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	c := &Config{
		InputPath:             fc.Paths.Input,
		OutputDir:             fc.Paths.OutputDir,
		Headroom:              fc.Build.Headroom,
		TinyThreshold:         fc.Build.TinyThreshold,
		SpatialFanout:         fc.Build.SpatialFanout,
		SpatialLeafCapacity:   fc.Build.SpatialLeafCapacity,
		UTurnPenalty:          fc.Build.UTurnPenalty,
		SignalPenalty:         fc.Build.SignalPenalty,
		RepresentativeMeters:  fc.Build.RepresentativeMeters,
		BarrierStraightDegree: fc.Build.BarrierStraightDegree,
	}
	c.applyDefaults()

	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.logLevel(fc.Logging.Level)}))

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Headroom <= 0 {
		c.Headroom = 0.20
	}
	if c.TinyThreshold <= 0 {
		c.TinyThreshold = 1000
	}
	if c.SpatialFanout <= 0 {
		c.SpatialFanout = 16
	}
	if c.SpatialLeafCapacity <= 0 {
		c.SpatialLeafCapacity = 64
	}
	if c.RepresentativeMeters <= 0 {
		c.RepresentativeMeters = 10
	}
	if c.BarrierStraightDegree <= 0 {
		c.BarrierStraightDegree = 10
	}
}

func (c *Config) logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate reports the first configuration error found. A build either
// starts against a fully valid configuration or not at all — spec.md §7's
// "builds either complete... or abort before writing any final file"
// extends to the config stage.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("config: paths.input is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: paths.output_dir is required")
	}
	if c.Headroom <= 0 || c.Headroom >= 1 {
		return fmt.Errorf("config: build.headroom must be in (0, 1)")
	}
	if c.SpatialFanout < 2 {
		return fmt.Errorf("config: build.spatial_fanout must be >= 2")
	}
	if c.SpatialLeafCapacity < 1 {
		return fmt.Errorf("config: build.spatial_leaf_capacity must be >= 1")
	}
	return nil
}

// Logger returns the structured logger every package Option below attaches.
func (c *Config) Logger() *slog.Logger { return c.logger }

// NodeGraphOptions builds the nodegraph.Option set this config describes.
func (c *Config) NodeGraphOptions() []nodegraph.Option {
	return []nodegraph.Option{
		nodegraph.WithHeadroom(c.Headroom),
		nodegraph.WithLogger(c.logger),
	}
}

// CompressorOptions builds the compressor.Option set this config describes.
func (c *Config) CompressorOptions() []compressor.Option {
	return []compressor.Option{
		compressor.WithLogger(c.logger),
	}
}

// EdgeBasedOptions builds the edgebased.Option set this config describes.
func (c *Config) EdgeBasedOptions() []edgebased.Option {
	return []edgebased.Option{
		edgebased.WithLogger(c.logger),
		edgebased.WithUTurnPenalty(c.UTurnPenalty),
		edgebased.WithSignalPenalty(c.SignalPenalty),
		edgebased.WithRepresentativeDistance(c.RepresentativeMeters),
		edgebased.WithBarrierStraightThreshold(c.BarrierStraightDegree),
	}
}

// SpatialOptions builds the spatial.Option set this config describes.
func (c *Config) SpatialOptions() []spatial.Option {
	return []spatial.Option{
		spatial.WithFanout(c.SpatialFanout),
		spatial.WithLeafCapacity(c.SpatialLeafCapacity),
		spatial.WithLogger(c.logger),
	}
}

// SCCOptions builds the scc.Option set this config describes.
func (c *Config) SCCOptions() []scc.Option {
	return []scc.Option{
		scc.WithTinyThreshold(c.TinyThreshold),
		scc.WithLogger(c.logger),
	}
}

// FacadeOptions builds the facade.Option set this config describes.
func (c *Config) FacadeOptions() []facade.Option {
	return []facade.Option{
		facade.WithTinyThreshold(c.TinyThreshold),
		facade.WithLogger(c.logger),
	}
}

// FacadePaths derives the artifact file paths Load needs from OutputDir,
// per the fixed layout a build writes (spec.md §6 stream names).
func (c *Config) FacadePaths() facade.Paths {
	join := func(name string) string { return filepath.Join(c.OutputDir, name) }
	return facade.Paths{
		EdgesPath:      join("edges.bin"),
		NodesPath:      join("nodes.bin"),
		GeometryPath:   join("geometry.bin"),
		ComponentsPath: join("components.bin"),
		ManifestPath:   join("manifest.bin"),
		LeafIndexPath:  join("leaf.bin"),
		RAMIndexPath:   join("ram.bin"),
	}
}
