package orgstats

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

// dependencyFile maps a well known manifest file to the ecosystem it describes and the
// function used to extract dependency names from it.
type dependencyFile struct {
	path      string
	ecosystem string
	parse     func([]byte) ([]string, error)
}

// dependencyFiles are the manifests inspected for each repository, in report order.
var dependencyFiles = []dependencyFile{
	{path: "package.json", ecosystem: "npm", parse: parsePackageJSON},
	{path: "requirements.txt", ecosystem: "pip", parse: parseRequirements},
	{path: "Gemfile", ecosystem: "gem", parse: parseGemfile},
	{path: "pom.xml", ecosystem: "maven", parse: parsePOM},
	{path: "build.gradle", ecosystem: "gradle", parse: markPresent},
	{path: "Cargo.toml", ecosystem: "cargo", parse: parseCargoToml},
	{path: "go.mod", ecosystem: "go", parse: parseGoMod},
}

// ParseDependencies extracts the dependency names from the content of a manifest of the
// specified ecosystem. Content that cannot be parsed yields an empty list.
func ParseDependencies(ecosystem string, content []byte) []string {
	for _, f := range dependencyFiles {
		if f.ecosystem != ecosystem {
			continue
		}

		deps, err := f.parse(content)
		if err != nil || deps == nil {
			return []string{}
		}
		return deps
	}
	return []string{}
}

func parsePackageJSON(content []byte) ([]string, error) {
	var pkg struct {
		Dependencies map[string]json.RawMessage `json:"dependencies"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}
	return sortedKeys(pkg.Dependencies), nil
}

// requirementSeparators end the package name in a requirements.txt line.
var requirementSeparators = []string{"==", ">=", "<="}

func parseRequirements(content []byte) ([]string, error) {
	deps := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, sep := range requirementSeparators {
			line = strings.SplitN(line, sep, 2)[0]
		}
		deps = append(deps, strings.TrimSpace(line))
	}
	return deps, scanner.Err()
}

var gemLine = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]`)

func parseGemfile(content []byte) ([]string, error) {
	deps := []string{}
	for _, line := range strings.Split(string(content), "\n") {
		if m := gemLine.FindStringSubmatch(line); m != nil {
			deps = append(deps, m[1])
		}
	}
	return deps, nil
}

func parsePOM(content []byte) ([]string, error) {
	var project struct {
		Dependencies []struct {
			GroupID    string `xml:"groupId"`
			ArtifactID string `xml:"artifactId"`
		} `xml:"dependencies>dependency"`
	}
	if err := xml.Unmarshal(content, &project); err != nil {
		return nil, err
	}

	deps := []string{}
	for _, d := range project.Dependencies {
		deps = append(deps, strings.TrimSpace(d.GroupID)+":"+strings.TrimSpace(d.ArtifactID))
	}
	return deps, nil
}

func parseCargoToml(content []byte) ([]string, error) {
	var manifest struct {
		Dependencies map[string]interface{} `toml:"dependencies"`
	}
	if err := toml.Unmarshal(content, &manifest); err != nil {
		return nil, err
	}
	return sortedKeys(manifest.Dependencies), nil
}

func parseGoMod(content []byte) ([]string, error) {
	f, err := modfile.ParseLax("go.mod", content, nil)
	if err != nil {
		return nil, err
	}

	deps := []string{}
	for _, r := range f.Require {
		deps = append(deps, r.Mod.Path)
	}
	return deps, nil
}

// markPresent records that a manifest exists without inspecting it.
func markPresent([]byte) ([]string, error) {
	return []string{"present"}, nil
}

// sortedKeys returns the keys of the specified map in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
