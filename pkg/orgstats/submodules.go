package orgstats

import (
	"github.com/go-git/go-git/v5/config"
)

// gitModulesPath is the path of the file declaring submodules.
const gitModulesPath = ".gitmodules"

// ParseSubmodules returns the submodules declared in the content of a .gitmodules file,
// ordered by name.
func ParseSubmodules(content []byte) ([]*Submodule, error) {
	m := config.NewModules()
	if err := m.Unmarshal(content); err != nil {
		return nil, err
	}

	names := sortedKeys(m.Submodules)
	submodules := make([]*Submodule, 0, len(names))
	for _, name := range names {
		s := m.Submodules[name]
		submodules = append(submodules, &Submodule{
			Name:   s.Name,
			Path:   s.Path,
			URL:    s.URL,
			Branch: s.Branch,
		})
	}

	return submodules, nil
}
