package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	EnvPrefix = "TIMETABLE"
)

// Config is the run manifest
type Config struct {
	Seed        int64    `mapstructure:"seed"`
	MaxAttempts int      `mapstructure:"max_attempts" validate:"gte=1"`
	BreakLength int      `mapstructure:"break_length" validate:"gte=-1"`
	Days        []string `mapstructure:"days" validate:"min=1,dive,required"`

	ExcludedSlots []string           `mapstructure:"excluded_slots"`
	SlotsFile     string             `mapstructure:"slots_file" validate:"required"`
	RoomsFile     string             `mapstructure:"rooms_file" validate:"required"`
	Departments   []DepartmentConfig `mapstructure:"departments" validate:"min=1,dive"`

	Clusters            [][]string `mapstructure:"clusters"`
	CompulsoryOnlyRooms []string   `mapstructure:"compulsory_only_rooms"`
	CombinedOnlyRooms   []string   `mapstructure:"combined_only_rooms"`
	LenientCredits      bool       `mapstructure:"lenient_credits"`

	OutputDir   string    `mapstructure:"output_dir" validate:"required"`
	MetricsFile string    `mapstructure:"metrics_file"`
	Log         LogConfig `mapstructure:"log"`
}

type DepartmentConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	CoursesFile string `mapstructure:"courses_file" validate:"required"`
}

type LogConfig struct {
	Env    string `mapstructure:"env" validate:"oneof=development production"`
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

var validate = validator.New()

// Load reads the manifest at path. Values can be overridden with TIMETABLE_* environment variables
// (e.g. TIMETABLE_SEED, TIMETABLE_LOG_LEVEL). Relative file paths are resolved against the manifest directory
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read manifest %v: %w", path, err)
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("cannot decode manifest %v: %w", path, err)
	}

	cfg.resolvePaths(filepath.Dir(path))
	if err := validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, fmt.Errorf("invalid manifest %v: %w", path, validationErrs)
		}
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("max_attempts", 2000)
	v.SetDefault("break_length", 1)
	v.SetDefault("days", model.DefaultDays)
	v.SetDefault("excluded_slots", model.DefaultExcludedSlots)
	v.SetDefault("clusters", model.DefaultClusters)

	policy := model.DefaultRoomPolicy()
	v.SetDefault("compulsory_only_rooms", policy.CompulsoryOnly)
	v.SetDefault("combined_only_rooms", policy.CombinedOnly)
	v.SetDefault("lenient_credits", false)

	v.SetDefault("output_dir", "out")
	v.SetDefault("metrics_file", "")

	v.SetDefault("log.env", EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func (cfg *Config) resolvePaths(base string) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(base, path)
	}

	cfg.SlotsFile = resolve(cfg.SlotsFile)
	cfg.RoomsFile = resolve(cfg.RoomsFile)
	cfg.OutputDir = resolve(cfg.OutputDir)
	cfg.MetricsFile = resolve(cfg.MetricsFile)
	for i := range cfg.Departments {
		cfg.Departments[i].CoursesFile = resolve(cfg.Departments[i].CoursesFile)
	}
}

func (cfg *Config) InputOptions() model.InputOptions {
	return model.InputOptions{
		Days:          cfg.Days,
		ExcludedSlots: cfg.ExcludedSlots,
		Policy: model.RoomPolicy{
			CompulsoryOnly: cfg.CompulsoryOnlyRooms,
			CombinedOnly:   cfg.CombinedOnlyRooms,
		},
		Clusters:       cfg.Clusters,
		LenientCredits: cfg.LenientCredits,
	}
}
