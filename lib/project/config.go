// Package project handles sysy.yaml project configuration files.
package project

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/timetraveler314/SysY-Compiler/util"
)

const ConfFileName = "sysy.yaml"

type Conf struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Version     string   `yaml:"version"`
	Main        string   `yaml:"main"`
	Source      string   `yaml:"source,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	License     string   `yaml:"license,omitempty"`
	Compiler    Compiler `yaml:"compiler,omitempty"`
}

type Compiler struct {
	Target            string `yaml:"target,omitempty"`
	OptimizationLevel int    `yaml:"optimization,omitempty"`
	ClangFlags        string `yaml:"clangFlags,omitempty"`
}

func (c *Conf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new SysY project"
	c.Version = "1.0.0"
	c.Main = "src/main.sy"
	c.Source = "src"
	c.Author = "Anonymous"
	c.License = "MIT"
}

// Save writes the config, prompting before clobbering an existing file
// unless overwrite is set.
func (c *Conf) Save(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return nil
		}
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding project config")
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Wrap(err, "writing project config")
	}
	return nil
}

// GetConf loads the project config from dir.
func GetConf(dir string) (Conf, error) {
	var conf Conf

	file, err := os.Open(filepath.Join(dir, ConfFileName))
	if err != nil {
		return Conf{}, errors.Wrap(err, "opening project config")
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&conf); err != nil {
		return Conf{}, errors.Wrap(err, "decoding project config")
	}
	return conf, nil
}
