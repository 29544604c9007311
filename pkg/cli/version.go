package cli

import (
	"text/template"

	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/build"
)

// versionTemplate provides a Go template for displaying extended version information.
var versionTemplate = template.Must(template.New("version").Parse(`{{ with . -}}
{{.Name}}
Version:    {{.Version}}
Go version: {{.GoVersion}}
Git commit: {{.GitCommit}}
Built:      {{.BuildTime}}
OS/Arch:    {{.OperatingSystem}}/{{.Architecture}}
{{ end }}`))

// newVersionCommand returns the "orgstats version" sub-command which prints build information.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		// Doesn't need the flags of the other commands
		PersistentPreRunE: func(c *cobra.Command, args []string) error { return nil },
		RunE: func(c *cobra.Command, args []string) error {
			return versionTemplate.Execute(c.OutOrStdout(), build.GetInfo())
		},
	}
}
