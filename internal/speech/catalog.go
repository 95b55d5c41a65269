package speech

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML shape of a voice inventory file.
type catalogFile struct {
	Voices []Voice `yaml:"voices"`
}

// DefaultCatalog is the built-in voice inventory used when no catalog file is
// configured. Clients that run synthesis locally report their own inventory
// instead.
var DefaultCatalog = []Voice{
	{Name: "Aria", Language: "en-US", Gender: "female", Tags: []string{"neural"}, Local: true},
	{Name: "Guy", Language: "en-US", Gender: "male", Tags: []string{"neural"}, Local: true},
	{Name: "Libby", Language: "en-GB", Gender: "female", Tags: []string{"enhanced"}},
	{Name: "Swara", Language: "hi-IN", Gender: "female", Tags: []string{"neural"}},
	{Name: "Elvira", Language: "es-ES", Gender: "female"},
	{Name: "Denise", Language: "fr-FR", Gender: "female"},
	{Name: "Katja", Language: "de-DE", Gender: "female"},
	{Name: "Nanami", Language: "ja-JP", Gender: "female", Tags: []string{"premium"}},
}

// LoadCatalog reads a voice inventory from a YAML file. An empty path returns
// the built-in default catalog.
func LoadCatalog(path string) ([]Voice, error) {
	if path == "" {
		return DefaultCatalog, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read voice catalog: %w", err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse voice catalog: %w", err)
	}
	if len(cf.Voices) == 0 {
		return nil, fmt.Errorf("voice catalog %s contains no voices", path)
	}
	return cf.Voices, nil
}
