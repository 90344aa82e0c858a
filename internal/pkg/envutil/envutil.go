// Package envutil reads settings from the environment, falling back to a flat
// YAML file of the same keys.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// Source resolves a key from the environment first, then the file values.
type Source struct {
	file map[string]string
	log  *logger.Logger
}

func New(file map[string]string, log *logger.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}
	return &Source{file: file, log: log}
}

// LoadFile parses a YAML mapping of KEY: value. Non-string scalars are kept in
// their YAML text form.
func LoadFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, node := range doc {
		switch node.Kind {
		case yaml.ScalarNode:
			out[strings.ToUpper(strings.TrimSpace(k))] = node.Value
		case yaml.SequenceNode:
			parts := make([]string, 0, len(node.Content))
			for _, item := range node.Content {
				parts = append(parts, item.Value)
			}
			out[strings.ToUpper(strings.TrimSpace(k))] = strings.Join(parts, ",")
		default:
			return nil, fmt.Errorf("parse config %s: key %s must be a scalar or a list", path, k)
		}
	}
	return out, nil
}

func (s *Source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

func (s *Source) String(key, defaultVal string) string {
	log := s.log.With("env_var", key)
	val, ok := s.lookup(key)
	if !ok {
		log.Debug("Environment variable not found, using default", "default", defaultVal)
		return defaultVal
	}
	log.Debug("Environment variable found, using environment", "environment", val)
	return val
}

func (s *Source) Int(key string, defaultVal int) int {
	valStr, ok := s.lookup(key)
	if !ok {
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(valStr))
	if err != nil {
		s.log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal)
		return defaultVal
	}
	return i
}

func (s *Source) Float(key string, defaultVal float64) float64 {
	valStr, ok := s.lookup(key)
	if !ok {
		return defaultVal
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
	if err != nil {
		s.log.Warn("Environment variable could not be parsed as float, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal)
		return defaultVal
	}
	return f
}

// Bool accepts 1/true/yes/on and 0/false/no/off in any case.
func (s *Source) Bool(key string, defaultVal bool) bool {
	valStr, ok := s.lookup(key)
	if !ok {
		return defaultVal
	}
	switch strings.ToLower(strings.TrimSpace(valStr)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	s.log.Warn("Environment variable could not be parsed as bool, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal)
	return defaultVal
}

func (s *Source) Duration(key string, defaultVal time.Duration) time.Duration {
	valStr, ok := s.lookup(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(strings.TrimSpace(valStr))
	if err != nil {
		s.log.Warn("Environment variable could not be parsed as duration, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal)
		return defaultVal
	}
	return d
}

// List splits a comma separated value, dropping blanks.
func (s *Source) List(key string) []string {
	valStr, ok := s.lookup(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
