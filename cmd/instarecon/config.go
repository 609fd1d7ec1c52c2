package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"instarecon/pkg/auth"
	"instarecon/pkg/config"
	"instarecon/pkg/ui"
)

const defaultConfigPath = ".instarecon.yaml"

const exampleConfig = `# InstaRecon configuration file
#
# Every option can also be set with an INSTARECON_ environment variable,
# e.g. INSTARECON_SESSION_ID or INSTARECON_TIMEOUT. Flags win over both.

instagram:
  # sessionid cookie of a logged-in browser session. Prefer
  # 'instarecon auth login' over storing it here in plain text.
  session_id: ""

  # stored account to use when session_id is empty
  account: ""

  base_url: "https://i.instagram.com"

  # per request
  timeout: 10s

output:
  no_banner: false
  no_color: false
  debug: false

  # .json, .yaml or .yml
  export_path: ""

logging:
  # debug, info, warn, error or disabled
  level: "warn"

  # optional; logs always go to stderr as well
  file: ""
`

func newConfigCmd(global *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example configuration file at --config, or ./.instarecon.yaml.
An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.configFile
			if path == "" {
				path = defaultConfigPath
			}
			return runConfigInit(ui.NewPrinter(cmd.OutOrStdout(), global.noColor), path)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Show the configuration after layering file, environment and defaults. The session ID is masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, global)
			if err != nil {
				return err
			}
			return runConfigShow(cmd, cfg)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func runConfigInit(printer *ui.Printer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	printer.PrintSuccess("Configuration file created: " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, cfg *config.Config) error {
	display := *cfg
	if display.Instagram.SessionID != "" {
		display.Instagram.SessionID = auth.Mask(display.Instagram.SessionID)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration sources (in order of priority):")
	fmt.Fprintln(out, "  1. Command line flags")
	fmt.Fprintln(out, "  2. Environment variables (INSTARECON_*) and .env files")
	fmt.Fprintln(out, "  3. Configuration file")
	fmt.Fprintln(out, "  4. Default values")
	return nil
}
