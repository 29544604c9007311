package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/build"
	"github.com/SEEK-Jobs/orgstats/pkg/cmd"
	"github.com/SEEK-Jobs/orgstats/pkg/yaml"
)

var (
	debug   = false
	printer cmd.ResultPrinter

	// logFile receives JSON log lines of every level when --log-file is specified
	logFile      *os.File
	consoleLevel = zerolog.InfoLevel
)

// NewRootCommand returns the root cobra.Command for orgstats.
func NewRootCommand(ctx context.Context) *cobra.Command {
	var format, logLevel, logFilePath, configPath string
	platOpts := &cmd.PlatformOptions{}

	rootCmd := &cobra.Command{
		Use:     "orgstats",
		Version: build.Version,
		Short:   "Command line tool for collecting GitHub organization repository statistics",
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			// Don't print usage if the command or child command produces an error as it's
			// confusing. We should only print usage if the CLI syntax is bad.
			c.SilenceUsage = true

			if configPath != "" {
				if err := applyConfigFile(c, yaml.NewCodec(), configPath); err != nil {
					return err
				}
			}

			if err := initLogging(logLevel, logFilePath); err != nil {
				return err
			}

			// Initialise the ResultPrinter
			p, err := cmd.NewResultPrinter(format, os.Stdout)
			if err != nil {
				return err
			}
			printer = p

			return nil
		},
		PersistentPostRunE: func(c *cobra.Command, args []string) error {
			if logFile == nil {
				return nil
			}
			err := logFile.Close()
			logFile = nil
			return err
		},
	}

	// Flags that apply to root command and all sub-commands
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (one of 'debug', 'info', 'warn' or 'error')")
	flags.StringVar(&logFilePath, "log-file", "", "File that JSON log lines of all levels are appended to")
	flags.StringVar(&format, "result-format", "yaml", "Result output format (must be one of 'yaml', 'json', or 'quiet')")
	flags.StringVar(&configPath, "config", "", "YAML or JSON file providing flag values")

	// Credentials are shared by all commands that talk to GitHub
	flags.StringVar(&platOpts.Token, "token", "", "GitHub personal access token (defaults to $GITHUB_TOKEN)")
	flags.IntVar(&platOpts.AppID, "app-id", 0, "GitHub App ID (defaults to $GITHUB_APP_ID)")
	flags.StringVar(&platOpts.PrivateKeyPath, "private-key", "", "Path of the GitHub App private key (defaults to $GITHUB_PRIVATE_KEY_PATH)")
	flags.StringVar(&platOpts.InstallationID, "installation-id", "", "GitHub App installation ID or comma separated org:id pairs")
	flags.StringVar(&platOpts.InstallationID, "installation-ids", "", "Alias of --installation-id")
	flags.StringVar(&platOpts.AppSecretID, "app-secret-id", "", "AWS Secrets Manager secret holding the GitHub App config")
	flags.StringVar(&platOpts.Hostname, "hostname", "", "GitHub Enterprise Server hostname (defaults to $GITHUB_HOSTNAME)")
	flags.StringVar(&platOpts.CloudWatchNamespace, "cloudwatch-namespace", "", "Report metrics to CloudWatch under this namespace")

	// Add sub-commands
	rootCmd.AddCommand(
		newCollectCommand(ctx, platOpts),
		newInstallationsCommand(ctx, platOpts),
		newRateLimitCommand(ctx, platOpts),
		newVersionCommand())

	// We'll take care of logging errors
	rootCmd.SilenceErrors = true

	return rootCmd
}

// NewConsoleWriter returns the human readable log writer.
func NewConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	w.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	w.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	w.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	w.FormatFieldValue = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	return w
}

// initLogging sets the global log level and opens the log file.
func initLogging(level, path string) error {
	l, err := parseLogLevel(level)
	if err != nil {
		return err
	}

	// Enable debug logging if requested
	if debug {
		l = zerolog.DebugLevel
	}
	consoleLevel = l

	if path == "" {
		zerolog.SetGlobalLevel(l)
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open log file '%s': %v", path, err)
	}
	logFile = f

	// The console filters on its own level
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return nil
}

// parseLogLevel parses a log level name case-insensitively.
func parseLogLevel(s string) (zerolog.Level, error) {
	switch name := strings.ToLower(s); name {
	case "warning":
		return zerolog.WarnLevel, nil
	case "critical":
		return zerolog.ErrorLevel, nil
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(name)
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level '%s'", s)
}

// withLogging returns ctx with a logger that also writes to the log file when one is open.
func withLogging(ctx context.Context) context.Context {
	if logFile == nil {
		return ctx
	}

	console := minLevelWriter{Writer: NewConsoleWriter(os.Stderr), min: consoleLevel}
	logger := zerolog.Ctx(ctx).Output(zerolog.MultiLevelWriter(console, logFile))
	return logger.WithContext(ctx)
}

// minLevelWriter drops log lines below min.
type minLevelWriter struct {
	io.Writer
	min zerolog.Level
}

// WriteLevel implements zerolog.LevelWriter.
func (w minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.min {
		return len(p), nil
	}
	return w.Write(p)
}
