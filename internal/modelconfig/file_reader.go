package modelconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FileReader loads model definitions from a local file or directory of JSON files.
type FileReader struct{}

// ReadModelConfigs reads every *.json file under path, or path itself when it
// is a single file. Files that fail to parse are skipped with a warning so one
// broken definition does not take down the whole catalog.
func (r *FileReader) ReadModelConfigs(path string) ([]ChatModelConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("modelconfig: failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		cfg, errRead := readModelConfigFile(path)
		if errRead != nil {
			return nil, errRead
		}
		return []ChatModelConfig{*cfg}, nil
	}

	var configs []ChatModelConfig
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, errWalk error) error {
		if errWalk != nil {
			return errWalk
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		cfg, errRead := readModelConfigFile(p)
		if errRead != nil {
			log.Warnf("modelconfig: skipping %s: %v", p, errRead)
			return nil
		}
		configs = append(configs, *cfg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("modelconfig: failed to walk %s: %w", path, err)
	}
	return configs, nil
}

func readModelConfigFile(path string) (*ChatModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelconfig: failed to read %s: %w", path, err)
	}
	return parseModelConfig(data, path)
}

func parseModelConfig(data []byte, source string) (*ChatModelConfig, error) {
	cfg := &ChatModelConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("modelconfig: failed to parse %s: %w", source, err)
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("modelconfig: %s is missing a model id", source)
	}
	return cfg, nil
}
