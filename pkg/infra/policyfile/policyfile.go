package policyfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"gopkg.in/yaml.v3"
)

var ErrEmptyPolicy = errors.New("policy file removes no tags")

// File is the YAML shape of a tag list policy.
type File struct {
	Name   string   `yaml:"name"`
	Remove []string `yaml:"remove"`
	Keep   []string `yaml:"keep"`
}

func Load(path string) (*policy.TagListPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*policy.TagListPolicy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	remove := clean(f.Remove)
	if len(remove) == 0 {
		return nil, ErrEmptyPolicy
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "file"
	}
	return policy.NewTagListPolicy(name, remove, clean(f.Keep)), nil
}

func clean(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
