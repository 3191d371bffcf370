package main

import (
	"log"
	"os"

	"github.com/andrewsmike/redhdl/internal/assembly"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

func loadNetlist(path string) (*netlist.Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rherrors.NewBadNetlist("unreadable", "%s: %v", path, err)
	}
	return netlist.FromJSON(data)
}

func loadLibrary(dir string, logger *log.Logger) (*library.Library, error) {
	return library.Load(dir, logger)
}

// loadAssemblyConfig starts from Default, optionally overlays a YAML file,
// then applies cmd-line overrides (flags the caller explicitly set win
// over both the default and the file).
func loadAssemblyConfig(path string, overrides func(*assembly.Config)) (assembly.Config, error) {
	cfg := assembly.Default()
	if path != "" {
		loaded, err := assembly.Load(path)
		if err != nil {
			return assembly.Config{}, err
		}
		cfg = loaded
	}
	if overrides != nil {
		overrides(&cfg)
	}
	return cfg, nil
}
