package modelconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

const validConfig = `{
	"id": "gpt-helper",
	"name": "GPT Helper",
	"model": {"provider": "openai", "model": "gpt-4o"}
}`

func TestFileReader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "helper.json", validConfig)

	configs, err := (&FileReader{}).ReadModelConfigs(path)
	if err != nil {
		t.Fatalf("ReadModelConfigs returned error: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}
	if configs[0].ID != "gpt-helper" || configs[0].Model.Name != "gpt-4o" {
		t.Errorf("Unexpected config: %+v", configs[0])
	}
}

func TestFileReader_DirectorySkipsBroken(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "good.json", validConfig)
	writeConfigFile(t, dir, "broken.json", `{"id":`)
	writeConfigFile(t, dir, "noid.json", `{"name":"anonymous"}`)
	writeConfigFile(t, dir, "ignored.txt", "not json")

	configs, err := (&FileReader{}).ReadModelConfigs(dir)
	if err != nil {
		t.Fatalf("ReadModelConfigs returned error: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config after skipping broken files, got %d", len(configs))
	}
}

func TestFileReader_MissingPath(t *testing.T) {
	_, err := (&FileReader{}).ReadModelConfigs(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Expected error for missing path")
	}
}

func TestFileReader_SingleBrokenFileFails(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "broken.json", `{`)
	if _, err := (&FileReader{}).ReadModelConfigs(path); err == nil {
		t.Fatal("Expected parse error for a single broken file")
	}
}
