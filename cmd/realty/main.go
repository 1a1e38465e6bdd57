package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"realtyref/internal/platform/config"
	dErrors "realtyref/pkg/domain-errors"
)

// cli carries the root flags and the app built from them.
type cli struct {
	configFile  string
	baseURL     string
	state       string
	statePath   string
	metricsFile string
	timeout     time.Duration
	verbose     bool

	app *app
}

// newRootCmd builds the command tree. The returned func closes whatever the
// invocation opened and must run after Execute, which skips post-run hooks
// when a command fails.
func newRootCmd() (*cobra.Command, func()) {
	c := &cli{}
	root := &cobra.Command{
		Use:   "realty",
		Short: "Real-estate referral and lead management",
		Long: `realty drives the referral app's screens from the command line.

Register users under a parliament/assembly code, log in as any user type,
browse and delete the collections your role can see, edit your profile,
post properties and request expert help.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "YAML config file")
	flags.StringVar(&c.baseURL, "base-url", "", "backend base URL (or REALTY_BASE_URL)")
	flags.StringVar(&c.state, "state", "", "session store: sqlite, redis or memory (or REALTY_STATE_BACKEND)")
	flags.StringVar(&c.statePath, "state-path", "", "sqlite session file (or REALTY_STATE_PATH)")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write metrics here on exit (or REALTY_METRICS_FILE)")
	flags.DurationVar(&c.timeout, "timeout", 0, "request timeout (or REALTY_TIMEOUT)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.lookupCmd(),
		c.registerCmd(),
		c.listCmd(),
		c.deleteCmd(),
		c.profileCmd(),
		c.propertyCmd(),
		c.expertCmd(),
		c.passwordCmd(),
	)
	return root, c.teardown
}

// setup resolves config from env, the config file and flags, in that order
// of precedence from lowest to highest, then opens the session.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.ClientFromEnv()
	if err != nil {
		return err
	}
	if err := config.ApplyFile(c.configFile, &cfg); err != nil {
		return err
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.state != "" {
		cfg.State.Backend = c.state
	}
	if c.statePath != "" {
		cfg.State.Path = c.statePath
	}
	if c.metricsFile != "" {
		cfg.MetricsFile = c.metricsFile
	}
	if c.timeout > 0 {
		cfg.Timeout = c.timeout
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown() {
	if c.app != nil {
		c.app.close()
		c.app = nil
	}
}

func main() {
	root, teardown := newRootCmd()
	err := root.Execute()
	teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// errorText is the alert text for err. Domain errors use the screen wording;
// anything else (flags, config) is shown as is.
func errorText(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return dErrors.UserMessage(err)
	}
	return err.Error()
}
