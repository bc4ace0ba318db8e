package config

// PackageConfig holds per-package settings from the configuration file.
// This allows pinning output shape and grouping for packages that are
// pulled regularly, so the command line stays short.
type PackageConfig struct {
	// Outdir is the directory CSV files for this package are written into.
	Outdir string `yaml:"outdir,omitempty"`

	// StatType overrides the default statistic type for this package.
	StatType string `yaml:"statType,omitempty"`

	// DatePeriod overrides the default date period for this package.
	DatePeriod string `yaml:"datePeriod,omitempty"`

	// WithPercent enables the derived percent column.
	// A pointer distinguishes "unset" from an explicit false.
	WithPercent *bool `yaml:"withPercent,omitempty"`

	// WithTotal enables the derived total row.
	// A pointer distinguishes "unset" from an explicit false.
	WithTotal *bool `yaml:"withTotal,omitempty"`
}

// File represents the structure of the .pypistat configuration file.
type File struct {
	// Packages maps PyPI package names to their specific configurations.
	Packages map[string]PackageConfig `yaml:"packages,omitempty"`

	// Defaults contains default settings applied to all packages unless
	// overridden in the package-specific configuration.
	Defaults PackageConfig `yaml:"defaults,omitempty"`
}

// GetPackageConfig returns the configuration for a specific package.
// It merges the package-specific configuration with defaults.
func (cf *File) GetPackageConfig(pkg string) PackageConfig {
	result := cf.Defaults

	if pkgConfig, ok := cf.Packages[pkg]; ok {
		if pkgConfig.Outdir != "" {
			result.Outdir = pkgConfig.Outdir
		}
		if pkgConfig.StatType != "" {
			result.StatType = pkgConfig.StatType
		}
		if pkgConfig.DatePeriod != "" {
			result.DatePeriod = pkgConfig.DatePeriod
		}
		if pkgConfig.WithPercent != nil {
			result.WithPercent = pkgConfig.WithPercent
		}
		if pkgConfig.WithTotal != nil {
			result.WithTotal = pkgConfig.WithTotal
		}
	}

	return result
}
