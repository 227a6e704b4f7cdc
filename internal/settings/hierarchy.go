package settings

import (
	"errors"
	"io/fs"
)

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	ProjectPath string
	SystemPath  string
	UserPath    string

	// NoInherit skips the system and user layers.
	NoInherit bool
}

// HierarchicalResult is the merged settings plus per-layer load status.
type HierarchicalResult struct {
	Settings *Settings
	Layers   []LayerInfo
}

// LoadHierarchical loads every discovered layer that exists and merges them.
// Missing files are skipped; a file that exists but fails to load is an error.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	var layers []LayerInfo
	if opts.NoInherit {
		if opts.ProjectPath != "" {
			layers = []LayerInfo{{Path: opts.ProjectPath, Level: LevelProject}}
		}
	} else {
		layers = DiscoverPaths(DiscoverOptions{
			ProjectPath: opts.ProjectPath,
			SystemPath:  opts.SystemPath,
			UserPath:    opts.UserPath,
		})
	}

	var loaded []*Settings
	for i := range layers {
		s, err := Load(layers[i].Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			layers[i].Err = err
			return nil, err
		}
		layers[i].Loaded = true
		loaded = append(loaded, s)
	}

	return &HierarchicalResult{
		Settings: MergeAll(loaded),
		Layers:   layers,
	}, nil
}
