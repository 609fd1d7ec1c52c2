package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"instarecon/pkg/auth"
	"instarecon/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// errReported means the failure was already printed to the user
var errReported = stderrors.New("reported")

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	logLevel   string
	noColor    bool
}

// newCredentialManager is replaced in tests
var newCredentialManager = func() (*auth.Manager, error) {
	return auth.NewManager()
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	global := &globalOptions{}
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "instarecon",
		Short: "Instagram OSINT lookup for a username or user ID",
		Long: `InstaRecon retrieves public profile metadata for an Instagram account and
renders it as a plain text report, followed by the masked contact hints
exposed by the account recovery lookup.

A session ID (the sessionid cookie of a logged-in browser session) is
required. It is taken from, in order:
  - the -s/--sessionid flag
  - INSTARECON_SESSION_ID or instagram.session_id in the config file
  - a stored account (see 'instarecon auth login')

This tool is for authorized security testing and research only. Users are
responsible for complying with applicable laws and regulations.`,
		Example: `  instarecon -u username -s your_session_id
  instarecon -i 123456789 -s your_session_id
  instarecon -u username --debug -o report.json
  instarecon -u username --account work`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, global, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&global.configFile, "config", "c", "", "config file (default is ./.instarecon.yaml or ~/.config/instarecon/config.yaml)")
	pf.StringVar(&global.logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	pf.BoolVar(&global.noColor, "no-color", false, "disable colored output")

	f := cmd.Flags()
	f.StringVarP(&opts.sessionID, "sessionid", "s", "", "Instagram session ID")
	f.StringVarP(&opts.username, "username", "u", "", "Instagram username")
	f.StringVarP(&opts.userID, "id", "i", "", "Instagram user ID")
	f.StringVarP(&opts.account, "account", "a", "", "use the session of a stored account")
	f.StringVarP(&opts.output, "output", "o", "", "also export the raw result to a .json, .yaml or .yml file")
	f.BoolVar(&opts.debug, "debug", false, "show debug information")
	f.BoolVar(&opts.noBanner, "no-banner", false, "skip banner display")

	cmd.MarkFlagsMutuallyExclusive("username", "id")
	cmd.MarkFlagsOneRequired("username", "id")

	cmd.SetVersionTemplate(`InstaRecon {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newAuthCmd(global), newConfigCmd(global))

	return cmd
}

// execute runs the CLI and maps the outcome to an exit code. Panics are
// reported as unexpected errors, with a stack trace only under --debug.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	printer := ui.NewPrinter(stdout, hasFlag(args, "--no-color"))

	defer func() {
		if r := recover(); r != nil {
			printer.PrintError("Unexpected error", fmt.Sprint(r))
			if hasFlag(args, "--debug") {
				fmt.Fprintf(stderr, "%s\n", debug.Stack())
			} else {
				fmt.Fprintln(stdout, "💡 Run with --debug flag for detailed error information")
			}
			code = 1
		}
	}()

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, errReported):
		return 1
	default:
		printer.PrintError("Error", err.Error())
		return 1
	}
}

// hasFlag looks for a boolean flag before cobra has parsed anything
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == name || strings.HasPrefix(arg, name+"=true") {
			return true
		}
	}
	return false
}
