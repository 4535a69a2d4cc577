// Package config loads storage properties from defaults, a YAML file and
// ACQUIRE_STORAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-acquire-storage/storage"
)

// EnvPrefix is prepended to every environment override, e.g.
// ACQUIRE_STORAGE_FILENAME or ACQUIRE_STORAGE_LIMITS_BYTE_LIMIT.
const EnvPrefix = "ACQUIRE_STORAGE"

// Error codes, readable with storage.CodeOf.
const (
	CodeLoadReadFailure storage.Code = "config.load.read_failure"
	CodeValidateInvalid storage.Code = "config.validate.invalid_value"
	CodeBuildFailure    storage.Code = "config.build.failure"
	CodeEncodeFailure   storage.Code = "config.encode.failure"
)

const componentConfig = "config"

// Config is the file form of storage.StorageProperties.
type Config struct {
	Filename             string            `mapstructure:"filename" yaml:"filename"`
	ExternalMetadataJSON string            `mapstructure:"external_metadata_json" yaml:"external_metadata_json"`
	FirstFrameID         uint32            `mapstructure:"first_frame_id" yaml:"first_frame_id"`
	PixelScaleUM         PixelScaleConfig  `mapstructure:"pixel_scale_um" yaml:"pixel_scale_um"`
	Dimensions           []DimensionConfig `mapstructure:"dimensions" yaml:"dimensions"`
	AppendDimension      int               `mapstructure:"append_dimension" yaml:"append_dimension"`
	EnableMultiscale     bool              `mapstructure:"enable_multiscale" yaml:"enable_multiscale"`
	Limits               LimitsConfig      `mapstructure:"limits" yaml:"limits"`
}

// PixelScaleConfig is the physical pixel size in microns.
type PixelScaleConfig struct {
	X float64 `mapstructure:"x" yaml:"x"`
	Y float64 `mapstructure:"y" yaml:"y"`
}

// DimensionConfig describes one dimension. Kind is one of spatial, channel
// or time.
type DimensionConfig struct {
	Name            string `mapstructure:"name" yaml:"name"`
	Kind            string `mapstructure:"kind" yaml:"kind"`
	ArraySizePx     uint32 `mapstructure:"array_size_px" yaml:"array_size_px"`
	ChunkSizePx     uint32 `mapstructure:"chunk_size_px" yaml:"chunk_size_px"`
	ShardSizeChunks uint32 `mapstructure:"shard_size_chunks" yaml:"shard_size_chunks"`
}

// LimitsConfig bounds the resources a built StorageProperties may use.
type LimitsConfig struct {
	MaxDimensions int    `mapstructure:"max_dimensions" yaml:"max_dimensions"`
	ByteLimit     uint64 `mapstructure:"byte_limit" yaml:"byte_limit"`
}

// SetDefaults registers the default configuration on v: a 1920x1080 frame
// appended along an unbounded time axis.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("filename", "out.zarr")
	v.SetDefault("external_metadata_json", "{}")
	v.SetDefault("first_frame_id", 0)
	v.SetDefault("pixel_scale_um.x", 1.0)
	v.SetDefault("pixel_scale_um.y", 1.0)
	v.SetDefault("dimensions", []map[string]any{
		{"name": "x", "kind": "spatial", "array_size_px": 1920, "chunk_size_px": 1920, "shard_size_chunks": 1},
		{"name": "y", "kind": "spatial", "array_size_px": 1080, "chunk_size_px": 1080, "shard_size_chunks": 1},
		{"name": "t", "kind": "time", "array_size_px": 0, "chunk_size_px": 64, "shard_size_chunks": 1},
	})
	v.SetDefault("append_dimension", 2)
	v.SetDefault("enable_multiscale", false)
	v.SetDefault("limits.max_dimensions", storage.MaxDimensions)
	v.SetDefault("limits.byte_limit", 0)
}

// SetupEnv binds ACQUIRE_STORAGE_* environment variables, with "." in keys
// replaced by "_".
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides, and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, oops.In(componentConfig).Code(CodeLoadReadFailure).With("path", path).
				Wrapf(err, "reading config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oops.In(componentConfig).Code(CodeLoadReadFailure).Wrapf(err, "unmarshalling config")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, oops.In(componentConfig).Code(CodeValidateInvalid).
			Wrapf(errors.Join(errs...), "validating config")
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting every
// issue rather than stopping at the first. When the fields are individually
// sound it builds the properties and checks the resulting layout as well.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateDimensions()...)
	errs = append(errs, c.validateLimits()...)
	if len(errs) > 0 {
		return errs
	}

	props, err := c.Build()
	if err != nil {
		return []error{err}
	}
	defer props.Destroy()

	if err := props.Validate(); err != nil {
		errs = append(errs, invalid("config: %v", err))
	}
	return errs
}

func (c *Config) validateDimensions() []error {
	var errs []error

	if len(c.Dimensions) == 0 {
		errs = append(errs, invalid("config: dimensions must not be empty"))
	}

	seen := make(map[string]bool, len(c.Dimensions))
	for i, d := range c.Dimensions {
		if d.Name == "" {
			errs = append(errs, invalid("config: dimensions[%d].name must not be empty", i))
		} else if seen[d.Name] {
			errs = append(errs, invalid("config: dimensions[%d].name %q is used twice", i, d.Name))
		}
		seen[d.Name] = true

		if !validKind(d.Kind) {
			errs = append(errs, invalid("config: dimensions[%d].kind must be one of [spatial, channel, time], got %q", i, d.Kind))
		}
		if d.ChunkSizePx == 0 {
			errs = append(errs, invalid("config: dimensions[%d].chunk_size_px must be positive", i))
		}
	}

	if c.AppendDimension < 2 || c.AppendDimension >= len(c.Dimensions) {
		errs = append(errs, invalid("config: append_dimension must be in [2, %d), got %d",
			len(c.Dimensions), c.AppendDimension))
	}

	return errs
}

func (c *Config) validateLimits() []error {
	var errs []error

	if c.Limits.MaxDimensions < 0 {
		errs = append(errs, invalid("config: limits.max_dimensions must not be negative, got %d", c.Limits.MaxDimensions))
	} else if c.Limits.MaxDimensions > 0 && len(c.Dimensions) > c.Limits.MaxDimensions {
		errs = append(errs, invalid("config: %d dimensions exceed limits.max_dimensions %d",
			len(c.Dimensions), c.Limits.MaxDimensions))
	}

	return errs
}

func validKind(s string) bool {
	switch strings.ToLower(s) {
	case "spatial", "channel", "time":
		return true
	}
	return false
}

func invalid(format string, args ...any) error {
	return oops.In(componentConfig).Code(CodeValidateInvalid).Errorf(format, args...)
}

// Build creates the StorageProperties c describes. The caller owns the
// result and must Destroy it.
func (c *Config) Build() (*storage.StorageProperties, error) {
	var opts []storage.Option
	if c.Limits.ByteLimit > 0 {
		opts = append(opts, storage.WithByteLimit(c.Limits.ByteLimit))
	}
	if c.Limits.MaxDimensions > 0 {
		opts = append(opts, storage.WithMaxDimensions(c.Limits.MaxDimensions))
	}

	props := storage.New(opts...)
	if err := c.populate(props); err != nil {
		props.Destroy()
		return nil, oops.In(componentConfig).Code(CodeBuildFailure).Wrapf(err, "building storage properties")
	}
	return props, nil
}

func (c *Config) populate(props *storage.StorageProperties) error {
	err := props.Init(c.FirstFrameID,
		storage.CString(c.Filename),
		storage.CString(c.ExternalMetadataJSON),
		storage.PixelScale{X: c.PixelScaleUM.X, Y: c.PixelScaleUM.Y})
	if err != nil {
		return err
	}

	for i, d := range c.Dimensions {
		kind, err := storage.ParseDimensionKind(d.Kind)
		if err != nil {
			return fmt.Errorf("dimensions[%d]: %w", i, err)
		}
		err = props.Dimensions.Insert(props.Dimensions.Count(), d.Name, kind,
			d.ArraySizePx, d.ChunkSizePx, d.ShardSizeChunks)
		if err != nil {
			return fmt.Errorf("dimensions[%d]: %w", i, err)
		}
	}

	if err := props.SetAppendDimension(c.AppendDimension); err != nil {
		return err
	}
	props.SetEnableMultiscale(c.EnableMultiscale)
	return nil
}

// FromProperties returns the configuration describing props.
func FromProperties(props *storage.StorageProperties) (*Config, error) {
	cfg := &Config{
		Filename:             props.Filename.String(),
		ExternalMetadataJSON: props.ExternalMetadataJSON.String(),
		FirstFrameID:         props.FirstFrameID,
		PixelScaleUM:         PixelScaleConfig{X: props.PixelScaleUM.X, Y: props.PixelScaleUM.Y},
		Dimensions:           make([]DimensionConfig, 0, props.Dimensions.Count()),
		AppendDimension:      props.AppendDimension,
		EnableMultiscale:     props.EnableMultiscale,
		Limits: LimitsConfig{
			MaxDimensions: props.Dimensions.Limit(),
			ByteLimit:     props.ByteLimit(),
		},
	}

	for i := 0; i < props.Dimensions.Count(); i++ {
		d, err := props.Dimensions.Get(i)
		if err != nil {
			return nil, oops.In(componentConfig).Code(CodeEncodeFailure).Wrapf(err, "reading dimension %d", i)
		}
		cfg.Dimensions = append(cfg.Dimensions, DimensionConfig{
			Name:            d.Name.String(),
			Kind:            strings.ToLower(d.Kind.String()),
			ArraySizePx:     d.ArraySizePx,
			ChunkSizePx:     d.ChunkSizePx,
			ShardSizeChunks: d.ShardSizeChunks,
		})
	}
	return cfg, nil
}

// Encode renders props as a YAML document Load accepts.
func Encode(props *storage.StorageProperties) ([]byte, error) {
	cfg, err := FromProperties(props)
	if err != nil {
		return nil, err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, oops.In(componentConfig).Code(CodeEncodeFailure).Wrapf(err, "encoding config")
	}
	return out, nil
}
