package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resolve/internal/config"
	"resolve/internal/logging"
	"resolve/internal/ui"
)

const Version = "0.1.0"

// app carries the flags and config shared by every command.
type app struct {
	configPath string
	dbPath     string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "resolve",
		Short:         "Resolve: daily momentum and a PIN-locked vault of goals",
		Long:          "Resolve is a local-first CLI/TUI with a daily to-do list (Momentum) and PIN-protected long-term resolutions (The Vault).",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/resolve/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database path (overrides $RESOLVE_DB and db_path)")

	rootCmd.AddCommand(
		newTodoCmd(a),
		newGoalCmd(a),
		newVaultCmd(a),
		newStreakCmd(a),
		newStatusCmd(a),
		newNameCmd(a),
		newThemeCmd(a),
		newInstallCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newBoardCmd(a),
	)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	_, err = logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return err
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
