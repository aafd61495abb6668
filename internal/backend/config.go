package backend

import (
	"fmt"
	"os"
	"strings"

	"speseledger/internal/config"
)

// ParseBackendType maps a DATA_BACKEND value to a BackendType. Matching is
// case-insensitive and ignores surrounding spaces.
func ParseBackendType(s string) (BackendType, error) {
	bt := BackendType(strings.ToLower(strings.TrimSpace(s)))
	if !bt.IsValid() {
		return "", fmt.Errorf("unknown backend %q: must be one of %s", s, strings.Join(GetBackendTypeStrings(), ", "))
	}
	return bt, nil
}

// FromAppConfig picks the storage settings out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType, err := ParseBackendType(appConfig.DataBackend)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Type:         backendType,
		FilePath:     appConfig.LedgerFilePath,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Location is the path the backend reads and writes, empty for memory.
func (c Config) Location() string {
	switch c.Type {
	case FileBackend:
		return c.FilePath
	case SQLiteBackend:
		return c.SQLiteDBPath
	default:
		return ""
	}
}

// Validate checks that the selected backend has somewhere to live.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == MemoryBackend {
		return nil
	}

	loc := c.Location()
	if loc == "" {
		return fmt.Errorf("%s backend needs a path", c.Type)
	}
	if info, err := os.Stat(loc); err == nil && info.IsDir() {
		return fmt.Errorf("%s backend path %s is a directory", c.Type, loc)
	}
	return nil
}

// GetBackendTypes returns all valid backend types, default first.
func GetBackendTypes() []BackendType {
	return []BackendType{FileBackend, SQLiteBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
