package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/yaml"
)

// applyConfigFile sets the flags of c that were not specified on the command line from the
// YAML (or JSON) file at path. Keys are flag names, underscores may replace dashes.
func applyConfigFile(c *cobra.Command, codec *yaml.Codec, path string) error {
	values := map[string]interface{}{}
	if err := codec.DecodeFile(path, &values); err != nil {
		return err
	}

	for key, v := range values {
		name := strings.ReplaceAll(key, "_", "-")
		if name == "config" {
			return errors.Errorf("config file %s cannot reference another config file", path)
		}

		f := c.Flags().Lookup(name)
		if f == nil {
			return errors.Errorf("unknown option '%s' in config file %s", key, path)
		}
		if f.Changed {
			continue
		}

		if err := c.Flags().Set(name, configString(v)); err != nil {
			return errors.Wrapf(err, "invalid value for '%s' in config file %s", key, path)
		}
	}

	return nil
}

// configString returns the flag syntax of a decoded config value.
func configString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []interface{}:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = configString(item)
		}
		return strings.Join(items, ",")
	}
	return fmt.Sprint(v)
}
