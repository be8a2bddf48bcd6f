package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/laundry/internal/model"
)

type Config struct {
	Data struct {
		Path string
	} `mapstructure:"data"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	UI struct {
		Theme string
		Color string // auto | always | never
	} `mapstructure:"ui"`

	Expiry struct {
		Interval time.Duration
	} `mapstructure:"expiry"`

	Image struct {
		MaxBytes int64 `mapstructure:"maxbytes"`
	} `mapstructure:"image"`

	Defaults struct {
		TotalPackageWeight float64 `mapstructure:"totalpackageweight"`
		CurrentWeight      float64 `mapstructure:"currentweight"`
		ExpirationDate     string  `mapstructure:"expirationdate"`
		MinLoadWeight      float64 `mapstructure:"minloadweight"`
		MaxLoadWeight      float64 `mapstructure:"maxloadweight"`
	} `mapstructure:"defaults"`
}

const envPrefix = "LAUNDRY"

func setDefaults(v *viper.Viper) {
	d := model.DefaultSettings()
	v.SetDefault("data.path", "laundry.json")
	v.SetDefault("log.level", "warn")
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.color", "auto")
	v.SetDefault("expiry.interval", time.Minute)
	v.SetDefault("image.maxbytes", int64(5<<20))
	v.SetDefault("defaults.totalpackageweight", d.TotalPackageWeight)
	v.SetDefault("defaults.currentweight", d.CurrentWeight)
	v.SetDefault("defaults.expirationdate", d.ExpirationDate.String())
	v.SetDefault("defaults.minloadweight", d.MinLoadWeight)
	v.SetDefault("defaults.maxloadweight", d.MaxLoadWeight)
}

// Load reads laundry.yaml (explicit path, cwd, or ~/.config/laundry), then
// .env, then LAUNDRY_* variables. A missing config file is fine; a broken one is not.
func Load(path string) (Config, error) {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("laundry")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "laundry"))
		}
	}

	var c Config
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if _, err := c.DefaultSettings(); err != nil {
		return c, err
	}
	return c, nil
}

// DefaultSettings converts the defaults block into model settings.
func (c Config) DefaultSettings() (model.Settings, error) {
	d := c.Defaults
	exp, err := model.ParseDate(d.ExpirationDate)
	if err != nil {
		return model.Settings{}, fmt.Errorf("defaults.expirationDate: %w", err)
	}
	s := model.Settings{
		TotalPackageWeight: d.TotalPackageWeight,
		CurrentWeight:      d.CurrentWeight,
		ExpirationDate:     exp,
		MinLoadWeight:      d.MinLoadWeight,
		MaxLoadWeight:      d.MaxLoadWeight,
	}
	switch {
	case s.TotalPackageWeight <= 0:
		return s, errors.New("defaults.totalPackageWeight must be positive")
	case s.CurrentWeight < 0 || s.CurrentWeight > s.TotalPackageWeight:
		return s, errors.New("defaults.currentWeight must be between 0 and totalPackageWeight")
	case s.MinLoadWeight < 0 || s.MinLoadWeight > s.MaxLoadWeight:
		return s, errors.New("defaults.minLoadWeight must be between 0 and maxLoadWeight")
	}
	return s, nil
}
