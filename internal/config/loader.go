package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Recognized config filenames, in priority order. The first one found in a
// directory wins and scanning of that directory stops — except that a
// pyproject.toml without a [tool.robocop] table does not count as found.
const (
	FileNameTOML      = "robocop.toml"
	FileNameDotTOML   = ".robocop.toml"
	FileNamePyproject = "pyproject.toml"
)

// keyDelim separates nested keys in the flattened koanf view. It must never
// occur in a real key: per-file-ignore globs like "test_*.robot" contain
// dots, so the default "." delimiter would split them apart.
const keyDelim = "::"

// pyprojectNamespace is the table robocop settings live under in pyproject.toml.
var pyprojectNamespace = "tool" + keyDelim + "robocop"

var recognizedFileNames = []string{FileNameTOML, FileNameDotTOML, FileNamePyproject}

// FindConfigFile returns the highest-priority recognized config file in dir,
// or "" when the directory has none.
func FindConfigFile(dir string) (string, error) {
	for _, name := range recognizedFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if name == FileNamePyproject {
			ok, err := hasRobocopTable(path)
			if err != nil {
				return "", err
			}
			if !ok {
				continue
			}
		}
		return path, nil
	}
	return "", nil
}

// LoadFragment parses one config document into a Fragment. For
// pyproject.toml only the [tool.robocop] table is read. Malformed documents
// and unknown keys are fatal ConfigurationErrors.
func LoadFragment(path string) (*Fragment, error) {
	k, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	if filepath.Base(path) == FileNamePyproject {
		k = k.Cut(pyprojectNamespace)
	}

	if err := checkTopLevelKeys(path, k); err != nil {
		return nil, err
	}

	frag := &Fragment{}
	decoderCfg := &mapstructure.DecoderConfig{
		Result:           frag,
		TagName:          "koanf",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	}
	if err := k.UnmarshalWithConf("", frag, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: decoderCfg}); err != nil {
		return nil, &ConfigurationError{File: path, Msg: "cannot decode document", Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigurationError{File: path, Msg: "cannot resolve path", Err: err}
	}
	frag.Path = abs
	frag.Dir = filepath.Dir(abs)
	return frag, nil
}

func loadDocument(path string) (*koanf.Koanf, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, &ConfigurationError{File: path, Msg: "malformed document", Err: err}
	}
	return k, nil
}

// hasRobocopTable reports whether a pyproject.toml declares [tool.robocop].
func hasRobocopTable(path string) (bool, error) {
	k, err := loadDocument(path)
	if err != nil {
		return false, err
	}
	return k.Exists(pyprojectNamespace), nil
}

// checkTopLevelKeys rejects keys outside the closed top-level namespace.
func checkTopLevelKeys(path string, k *koanf.Koanf) error {
	var unknown []string
	for key := range k.Raw() {
		if !topLevelKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ConfigurationError{
		File: path,
		Key:  unknown[0],
		Msg:  fmt.Sprintf("unknown configuration key (known keys: %s)", strings.Join(knownKeyList(), ", ")),
	}
}

func knownKeyList() []string {
	keys := make([]string, 0, len(topLevelKeys))
	for key := range topLevelKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
