package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"site-autobidder/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load site parameters from a separate YAML (e.g. examples/sites/*.yaml).
	// If both SiteFile and Site are provided, Site overrides SiteFile.
	SiteFile string         `yaml:"site_file"`
	Site     SiteConfig     `yaml:"site"`
	Forecast ForecastConfig `yaml:"forecast"`
	Market   MarketConfig   `yaml:"market"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
}

type SiteConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	AltitudeM float64 `yaml:"altitude_m"`
	Timezone  string  `yaml:"timezone"`

	Solar  SolarConfig  `yaml:"solar"`
	Wind   WindConfig   `yaml:"wind"`
	Demand DemandConfig `yaml:"demand"`
}

type SolarConfig struct {
	AreaM2           float64 `yaml:"area_m2"`
	TiltDegrees      float64 `yaml:"tilt_degrees"`
	BaseEfficiency   float64 `yaml:"base_efficiency"`
	TemperatureCoeff float64 `yaml:"temperature_coeff"`
	MaxOutputW       float64 `yaml:"max_output_w"`
}

type WindConfig struct {
	Turbines     int     `yaml:"turbines"`
	RotorHeightM float64 `yaml:"rotor_height_m"`
}

type DemandConfig struct {
	DataCentreKW      float64 `yaml:"data_centre_kw"`
	OfficeEquipmentKW float64 `yaml:"office_equipment_kw"`
	LightingKW        float64 `yaml:"lighting_kw"`
}

type ForecastConfig struct {
	BaseURL string `yaml:"base_url"`
	SiteID  string `yaml:"site_id"`
	KeyFile string `yaml:"key_file"` // falls back to METOFFICEAPI env var
}

type MarketConfig struct {
	BaseURL string `yaml:"base_url"`
	KeyFile string `yaml:"key_file"` // falls back to ELEXONAPI env var
}

type ExchangeConfig struct {
	BaseURL string `yaml:"base_url"`
	SiteID  string `yaml:"site_id"`
	Key     string `yaml:"key"`
}

type StoreConfig struct {
	Dir string `yaml:"dir"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate or default it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If site_file is set, load it and merge in any explicit overrides from c.Site.
	if c.SiteFile != "" {
		sitePath := c.SiteFile
		if !filepath.IsAbs(sitePath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), sitePath)
			if _, err := os.Stat(cand); err == nil {
				sitePath = cand
			}
		}
		loaded, err := loadSiteFile(sitePath)
		if err != nil {
			return nil, err
		}
		c.Site = MergeSite(loaded, c.Site)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Dir == "" {
		c.Store.Dir = "./data"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "./cached"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Site.Name == "" {
		return errors.New("site.name is required")
	}
	if err := c.Site.Location().Validate(); err != nil {
		return fmt.Errorf("site config invalid: %w", err)
	}
	if err := c.Site.SolarArray().Validate(); err != nil {
		return fmt.Errorf("solar config invalid: %w", err)
	}
	if err := c.Site.WindFarm().Validate(); err != nil {
		return fmt.Errorf("wind config invalid: %w", err)
	}
	if err := c.Site.DemandModel().Validate(); err != nil {
		return fmt.Errorf("demand config invalid: %w", err)
	}
	return nil
}

func (s SiteConfig) Location() model.Location {
	return model.Location{
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		AltitudeM: s.AltitudeM,
		Timezone:  s.Timezone,
	}
}

func (s SiteConfig) SolarArray() model.SolarArray {
	return model.SolarArray{
		AreaM2:           s.Solar.AreaM2,
		TiltDegrees:      s.Solar.TiltDegrees,
		BaseEfficiency:   s.Solar.BaseEfficiency,
		TemperatureCoeff: s.Solar.TemperatureCoeff,
		MaxOutputW:       s.Solar.MaxOutputW,
	}
}

func (s SiteConfig) WindFarm() model.WindFarm {
	return model.WindFarm{
		Turbines:     s.Wind.Turbines,
		RotorHeightM: s.Wind.RotorHeightM,
	}
}

func (s SiteConfig) DemandModel() model.DemandModel {
	return model.DemandModel{
		DataCentreKW:      s.Demand.DataCentreKW,
		OfficeEquipmentKW: s.Demand.OfficeEquipmentKW,
		LightingKW:        s.Demand.LightingKW,
	}
}

type siteFileWrapper struct {
	Site SiteConfig `yaml:"site"`
}

func loadSiteFile(path string) (SiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, err
	}
	var w siteFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SiteConfig{}, err
	}
	return w.Site, nil
}

// MergeSite overlays non-zero fields from override onto base.
// This is used when loading a site file and then applying overrides from the
// main config.
func MergeSite(base, override SiteConfig) SiteConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Latitude != 0 {
		out.Latitude = override.Latitude
	}
	if override.Longitude != 0 {
		out.Longitude = override.Longitude
	}
	if override.AltitudeM != 0 {
		out.AltitudeM = override.AltitudeM
	}
	if override.Timezone != "" {
		out.Timezone = override.Timezone
	}
	if override.Solar.AreaM2 != 0 {
		out.Solar.AreaM2 = override.Solar.AreaM2
	}
	if override.Solar.TiltDegrees != 0 {
		out.Solar.TiltDegrees = override.Solar.TiltDegrees
	}
	if override.Solar.BaseEfficiency != 0 {
		out.Solar.BaseEfficiency = override.Solar.BaseEfficiency
	}
	if override.Solar.TemperatureCoeff != 0 {
		out.Solar.TemperatureCoeff = override.Solar.TemperatureCoeff
	}
	if override.Solar.MaxOutputW != 0 {
		out.Solar.MaxOutputW = override.Solar.MaxOutputW
	}
	if override.Wind.Turbines != 0 {
		out.Wind.Turbines = override.Wind.Turbines
	}
	if override.Wind.RotorHeightM != 0 {
		out.Wind.RotorHeightM = override.Wind.RotorHeightM
	}
	if override.Demand.DataCentreKW != 0 {
		out.Demand.DataCentreKW = override.Demand.DataCentreKW
	}
	if override.Demand.OfficeEquipmentKW != 0 {
		out.Demand.OfficeEquipmentKW = override.Demand.OfficeEquipmentKW
	}
	if override.Demand.LightingKW != 0 {
		out.Demand.LightingKW = override.Demand.LightingKW
	}
	return out
}
