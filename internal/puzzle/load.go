package puzzle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/roach88/numreach/internal/engine"
)

// Puzzle is one named request from a puzzle set.
type Puzzle struct {
	Name    string
	Request engine.Request
}

// LoadSet reads the puzzles in path, which may be a .cue file, a .yaml or
// .yml file, or a directory. A directory is loaded as one CUE package if
// it holds .cue files; otherwise every YAML file in it is read, in name
// order. Every puzzle is checked against the schema.
func LoadSet(path string) ([]Puzzle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("cannot access: %v", err)}
	}

	if info.IsDir() {
		cueFiles, err := filepath.Glob(filepath.Join(path, "*.cue"))
		if err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
		if len(cueFiles) > 0 {
			return loadCUE(path, []string{"."}, path)
		}
		return loadYAMLDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, &LoadError{Path: path, Message: err.Error()}
		}
		return loadCUE(filepath.Dir(abs), []string{filepath.Base(abs)}, path)
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	default:
		return nil, &LoadError{Path: path, Message: "unsupported puzzle file (want .cue, .yaml or .yml)"}
	}
}

func loadCUE(dir string, args []string, display string) ([]Puzzle, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}

	instances := load.Instances(args, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Path: display, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, cueLoadError(display, inst.Err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueLoadError(display, err)
	}

	set := value.LookupPath(cue.ParsePath("puzzle"))
	if !set.Exists() {
		return nil, &LoadError{Path: display, Message: "no puzzle struct found"}
	}
	iter, err := set.Fields()
	if err != nil {
		return nil, cueLoadError(display, err)
	}

	var puzzles []Puzzle
	for iter.Next() {
		name := iter.Label()
		req, err := s.check(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("puzzle %q: %w", name, errors.Join(asErrors(schemaErrors(err))...))
		}
		puzzles = append(puzzles, Puzzle{Name: name, Request: req})
	}
	if len(puzzles) == 0 {
		return nil, &LoadError{Path: display, Message: "puzzle struct is empty"}
	}
	return puzzles, nil
}

// yamlSet is the YAML puzzle set format.
type yamlSet struct {
	Puzzles []yamlPuzzle `yaml:"puzzles"`
}

type yamlPuzzle struct {
	Name    string `yaml:"name"`
	Numbers []int  `yaml:"numbers"`
	Target  int    `yaml:"target"`
	Level   int    `yaml:"level"`
}

// DecodeYAML strictly decodes a YAML puzzle set: unknown fields are
// errors. Each puzzle is validated against the schema.
func DecodeYAML(r io.Reader) ([]Puzzle, error) {
	var set yamlSet
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(set.Puzzles) == 0 {
		return nil, fmt.Errorf("no puzzles defined")
	}

	puzzles := make([]Puzzle, 0, len(set.Puzzles))
	for i, p := range set.Puzzles {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("puzzle-%d", i+1)
		}
		req := engine.Request{Numbers: p.Numbers, Target: p.Target, Level: p.Level}
		if errs := Validate(req, ModeAny); len(errs) > 0 {
			return nil, fmt.Errorf("puzzle %q: %w", name, errors.Join(asErrors(errs)...))
		}
		puzzles = append(puzzles, Puzzle{Name: name, Request: req})
	}
	return puzzles, nil
}

func loadYAMLFile(path string) ([]Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("cannot open: %v", err)}
	}
	defer f.Close()

	puzzles, err := DecodeYAML(f)
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return puzzles, nil
}

func loadYAMLDir(dir string) ([]Puzzle, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, &LoadError{Path: dir, Message: err.Error()}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: dir, Message: "no .cue or .yaml puzzle files found"}
	}
	sort.Strings(files)

	var all []Puzzle
	for _, f := range files {
		puzzles, err := loadYAMLFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, puzzles...)
	}
	return all, nil
}

func asErrors(verrs []ValidationError) []error {
	out := make([]error, len(verrs))
	for i, v := range verrs {
		out[i] = v
	}
	return out
}
