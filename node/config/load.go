package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

// FromFile loads a Replay config from a TOML file. Missing files fall
// back to the defaults.
func FromFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return DefaultReplay(), nil
	case err != nil:
		return nil, xerrors.Errorf("opening config file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return FromReader(f)
}

// FromReader loads a Replay config from a reader over defaults.
func FromReader(r io.Reader) (*Replay, error) {
	cfg := DefaultReplay()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, xerrors.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
