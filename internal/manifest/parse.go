// pattern: Imperative Shell

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrParse is returned when a descriptor or manifest exists but is not valid YAML.
var ErrParse = errors.New("manifest parse error")

// DescriptorPath returns the colcon.pkg path inside dir.
func DescriptorPath(dir string) string {
	return filepath.Join(dir, DescriptorFile)
}

// RepositoriesPath returns the <project>.repos path inside dir.
func RepositoriesPath(dir, projectName string) string {
	return filepath.Join(dir, projectName+RepositoriesExt)
}

// ReadDescriptor reads dir/colcon.pkg.
// A missing file is not an error: it returns (nil, nil).
// A descriptor without a name yields an empty Descriptor; its dependencies are ignored.
func ReadDescriptor(dir string) (*Descriptor, error) {
	data, err := readOptional(DescriptorPath(dir))
	if err != nil || data == nil {
		return nil, err
	}
	return ParseDescriptor(data)
}

// ParseDescriptor parses colcon.pkg content.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, DescriptorFile, err)
	}
	if d.Name == "" {
		return &Descriptor{}, nil
	}
	return &d, nil
}

// ReadRepositories reads dir/<projectName>.repos.
// A missing file is not an error: it returns (nil, nil).
func ReadRepositories(dir, projectName string) (*Repositories, error) {
	data, err := readOptional(RepositoriesPath(dir, projectName))
	if err != nil || data == nil {
		return nil, err
	}
	return ParseRepositories(data)
}

// ParseRepositories parses .repos content.
func ParseRepositories(data []byte) (*Repositories, error) {
	var r Repositories
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: repositories: %v", ErrParse, err)
	}
	if r.Entries == nil {
		r.Entries = map[string]RepoSpec{}
	}
	return &r, nil
}

// readOptional returns nil data when path does not exist or is a directory.
func readOptional(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
