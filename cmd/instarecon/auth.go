package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"instarecon/pkg/auth"
	"instarecon/pkg/ui"
)

const defaultAccountName = "default"

func newAuthCmd(global *globalOptions) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored session IDs",
		Long: `Store session IDs under a name so -s/--sessionid need not be typed on
every run.

Session IDs are stored in:
  - the system keychain (when available)
  - an AES-GCM encrypted file keyed by INSTARECON_PASSPHRASE or a
    generated passphrase file

Never share your session ID or credential files!`,
	}

	var noGuide bool
	loginCmd := &cobra.Command{
		Use:   "login [name]",
		Short: "Store a session ID",
		Long: `Store a session ID under a name (default "default"). The value is read
without echo when stdin is a terminal.`,
		Example: `  instarecon auth login
  instarecon auth login work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultAccountName
			if len(args) > 0 {
				name = args[0]
			}
			return runLogin(cmd, ui.NewPrinter(cmd.OutOrStdout(), global.noColor), name, !noGuide)
		},
	}
	loginCmd.Flags().BoolVar(&noGuide, "no-guide", false, "do not print how to find the session ID")

	logoutCmd := &cobra.Command{
		Use:     "logout <name>",
		Short:   "Remove a stored session ID",
		Example: `  instarecon auth logout work`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(ui.NewPrinter(cmd.OutOrStdout(), global.noColor), args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		Long:  `List stored accounts, newest first, with masked session IDs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), ui.NewPrinter(cmd.OutOrStdout(), global.noColor))
		},
	}

	authCmd.AddCommand(loginCmd, logoutCmd, listCmd)
	return authCmd
}

func runLogin(cmd *cobra.Command, printer *ui.Printer, name string, guide bool) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if guide {
		auth.WriteSessionGuide(cmd.OutOrStdout())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🔑 Session ID for %q: ", name)
	sessionID, err := readSecret(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to read session ID: %w", err)
	}

	if err := manager.Store(&auth.Account{Name: name, SessionID: sessionID}); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Stored session %s for account %q", auth.Mask(sessionID), name))
	return nil
}

func runLogout(printer *ui.Printer, name string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(name); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Removed account %q", name))
	return nil
}

func runList(out io.Writer, printer *ui.Printer) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		printer.PrintWarning("No stored accounts. Run 'instarecon auth login' to add one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Account", "Session ID", "Stored"})
	for _, account := range accounts {
		t.AppendRow(table.Row{account.Name, auth.Mask(account.SessionID), humanize.Time(account.LastModified)})
	}
	t.Render()

	return nil
}

// readSecret reads one line, without echo when in is a terminal
func readSecret(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
