package metric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// definitionFile is the on-disk shape of a metric definition:
//
//	name: worship_style
//	description: Preferred worship style
//	active: true
//	schema:
//	  type: object
//	  properties: ...
//
// The name defaults to the file name without its extension.
type definitionFile struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Active      *bool                  `yaml:"active"`
	Schema      map[string]interface{} `yaml:"schema"`
}

type jsonDefinitionFile struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Active      *bool            `json:"active"`
	Schema      jsonvalue.Object `json:"schema"`
}

// LoadDefinitions reads every *.yaml, *.yml and *.json file directly under dir,
// in file name order. A missing directory yields no definitions.
func LoadDefinitions(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Metric definitions directory does not exist", "path", dir)
			return []Definition{}, nil
		}
		return nil, fmt.Errorf("failed to read metric definitions: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		def, err := loadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("metric %q is defined in both %s and %s", def.Name, prev, name)
		}
		seen[def.Name] = name
		defs = append(defs, def)
	}
	return defs, nil
}

func loadDefinitionFile(path string) (Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read metric definition %s: %w", path, err)
	}

	var def Definition
	if strings.EqualFold(filepath.Ext(path), ".json") {
		def, err = parseJSONDefinition(content)
	} else {
		def, err = parseYAMLDefinition(content)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("failed to parse metric definition %s: %w", path, err)
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

func parseYAMLDefinition(content []byte) (Definition, error) {
	var file definitionFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return Definition{}, err
	}
	doc, err := jsonvalue.ObjectFromMap(file.Schema)
	if err != nil {
		return Definition{}, fmt.Errorf("schema: %w", err)
	}
	return Definition{
		Name:        file.Name,
		Description: file.Description,
		Schema:      doc,
		IsActive:    file.Active,
	}, nil
}

func parseJSONDefinition(content []byte) (Definition, error) {
	var file jsonDefinitionFile
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return Definition{}, err
	}
	schemaDoc := file.Schema
	if schemaDoc == nil {
		schemaDoc = jsonvalue.Object{}
	}
	return Definition{
		Name:        file.Name,
		Description: file.Description,
		Schema:      schemaDoc,
		IsActive:    file.Active,
	}, nil
}
