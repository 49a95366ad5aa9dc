// Package source turns configuration files into envskema values sources.
//
// YAML and JSON documents decode into plain map[string]any trees. Several
// trees can be layered with Merge before they are handed to a loader, or
// passed as separate sources so that provenance keeps each file name.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	envskema "github.com/reoring/envskema"
)

// ErrNotMapping is returned when a document root is not a mapping.
var ErrNotMapping = errors.New("source: document root is not a mapping")

// ErrUnknownFormat is returned by File for unsupported extensions.
var ErrUnknownFormat = errors.New("source: unknown file format")

// YAML decodes a single YAML document into a values source. An empty
// document yields an empty tree.
func YAML(data []byte) (envskema.Source, error) {
	tree, err := decodeYAML(data)
	if err != nil {
		return envskema.Source{}, err
	}
	return envskema.Values(tree), nil
}

// JSON decodes a JSON object into a values source. Numbers decode as float64.
func JSON(data []byte) (envskema.Source, error) {
	tree, err := decodeJSON(data)
	if err != nil {
		return envskema.Source{}, err
	}
	return envskema.Values(tree), nil
}

// File reads path and decodes it by extension (.yaml, .yml or .json). The
// returned source is named after path.
func File(path string) (envskema.Source, error) {
	tree, err := ReadFile(path)
	if err != nil {
		return envskema.Source{}, err
	}
	return envskema.Values(tree).Named(path), nil
}

// ReadFile is File returning the decoded tree.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	var tree map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		tree, err = decodeYAML(data)
	case ".json":
		tree, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	return tree, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var node any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if node == nil {
		return map[string]any{}, nil
	}
	tree := yamlAnyToStringMap(node)
	if tree == nil {
		return nil, ErrNotMapping
	}
	return tree, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	var node any
	if err := j.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	tree, ok := node.(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	return tree, nil
}
