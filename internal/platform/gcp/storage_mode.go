package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/dsaquest-backend/internal/platform/envutil"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

// StorageConfig selects between real GCS and a fake-gcs-server emulator.
type StorageConfig struct {
	Mode         StorageMode
	EmulatorHost string
	// Inferred is set when the mode was derived from STORAGE_EMULATOR_HOST
	// alone rather than OBJECT_STORAGE_MODE.
	Inferred bool
}

func (c StorageConfig) Emulated() bool { return c.Mode == StorageModeEmulator }

// StorageConfigError carries the offending setting.
type StorageConfigError struct {
	Setting string
	Value   string
	Reason  string
}

func (e *StorageConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %s", e.Setting, e.Value, e.Reason)
}

func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{EmulatorHost: strings.TrimSpace(envutil.String("STORAGE_EMULATOR_HOST", ""))}

	raw := strings.TrimSpace(envutil.String("OBJECT_STORAGE_MODE", ""))
	switch mode := StorageMode(strings.ToLower(raw)); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeEmulator
			cfg.Inferred = true
		}
	case StorageModeGCS, StorageModeEmulator:
		cfg.Mode = mode
	default:
		return cfg, &StorageConfigError{Setting: "OBJECT_STORAGE_MODE", Value: raw, Reason: "expected gcs or gcs_emulator"}
	}
	return cfg, cfg.Validate()
}

func (c StorageConfig) Validate() error {
	switch c.Mode {
	case StorageModeGCS:
		return nil
	case StorageModeEmulator:
	default:
		return &StorageConfigError{Setting: "OBJECT_STORAGE_MODE", Value: string(c.Mode), Reason: "expected gcs or gcs_emulator"}
	}
	if c.EmulatorHost == "" {
		return &StorageConfigError{Setting: "STORAGE_EMULATOR_HOST", Reason: "required in gcs_emulator mode"}
	}
	u, err := url.Parse(c.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &StorageConfigError{Setting: "STORAGE_EMULATOR_HOST", Value: c.EmulatorHost, Reason: "expected an absolute URL like http://fake-gcs:4443"}
	}
	return nil
}
