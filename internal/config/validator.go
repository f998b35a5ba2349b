package config

import (
	"errors"
	"fmt"
	"runtime"

	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return rberrors.NewConfigError("project", cfg.Project.Root, err)
	}

	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return rberrors.NewConfigError("index", "", err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return rberrors.NewConfigError("performance", fmt.Sprint(cfg.Performance.MaxWorkers), err)
	}

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return rberrors.NewConfigError("output.format", cfg.Output.Format, err)
	}

	if cfg.Watch.DebounceMs < 0 {
		return rberrors.NewConfigError("watch.debounce_ms", fmt.Sprint(cfg.Watch.DebounceMs),
			errors.New("debounce cannot be negative"))
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", index.MaxFileSize)
	}
	if index.MaxFileCount <= 0 {
		return fmt.Errorf("MaxFileCount must be positive, got %d", index.MaxFileCount)
	}
	if index.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", index.MaxFileSize)
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// 0 means auto-detect
	if perf.MaxWorkers < 0 {
		return fmt.Errorf("MaxWorkers cannot be negative, got %d", perf.MaxWorkers)
	}
	return nil
}

func (v *Validator) validateOutputConfig(out *Output) error {
	switch out.Format {
	case "", FormatText, FormatJSON, FormatYAML, FormatTOML:
		return nil
	}
	return fmt.Errorf("unknown output format %q", out.Format)
}

// setSmartDefaults fills in values left at zero
func (v *Validator) setSmartDefaults(cfg *Config) {
	// cores-1 leaves headroom for the system, minimum of 1
	if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = DefaultDebounceMs
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = projectName(cfg.Project.Root)
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
