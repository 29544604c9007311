package github

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// defaultInstallation is the key of the installation used for orgs without an explicit mapping.
const defaultInstallation = "default"

// Installations maps GitHub org logins to GitHub App installation IDs.
type Installations map[string]int64

// ParseInstallationIDs parses a single installation ID ("12345"), a single org mapping
// ("org:12345") or a comma separated list of either. IDs without an org apply to all orgs
// that are not explicitly mapped.
func ParseInstallationIDs(s string) (Installations, error) {
	installations := Installations{}
	if strings.TrimSpace(s) == "" {
		return installations, nil
	}

	for _, pair := range strings.Split(s, ",") {
		org, id := defaultInstallation, strings.TrimSpace(pair)
		if i := strings.Index(id, ":"); i >= 0 {
			org, id = strings.TrimSpace(id[:i]), strings.TrimSpace(id[i+1:])
			if org == "" {
				return nil, errors.Errorf("invalid installation mapping '%s': missing organization", pair)
			}
		}

		if id == "" {
			return nil, errors.Errorf("invalid installation mapping '%s': missing installation ID", pair)
		}

		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid installation ID '%s'", id)
		}
		installations[org] = n
	}

	return installations, nil
}

// Lookup returns the installation ID mapped to the specified org, falling back to the default
// installation. Org logins are matched case-insensitively.
func (i Installations) Lookup(orgName string) (int64, bool) {
	if id, ok := i[orgName]; ok {
		return id, true
	}

	for org, id := range i {
		if org != defaultInstallation && strings.EqualFold(org, orgName) {
			return id, true
		}
	}

	id, ok := i[defaultInstallation]
	return id, ok
}
