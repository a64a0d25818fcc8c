package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/relink/internal/version"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/reconcile"
	"github.com/arthur-debert/relink/pkg/registry"
)

var (
	verbosity    int
	dryRun       bool
	force        bool
	registryFile string

	rootCmd = &cobra.Command{
		Use:   "relink",
		Short: "Reconcile managed config paths against their source of truth",
		Long: `relink brings a registry of system configuration paths into a canonical
"linked to source of truth" state: every managed path becomes a link to its
repository copy. It classifies each path, plans the minimal corrective
actions, backs up anything it is about to change and verifies the result.

Running relink twice in a row is always safe; a converged system yields
zero actions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd)
		},
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview planned actions without executing them")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Replace real shared/script copies with links (repo wins)")
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "", "Registry file (default $XDG_CONFIG_HOME/relink/registry.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(manCmd)
}

func runReconcile(cmd *cobra.Command) error {
	logger := logging.GetLogger("cmd")

	p, err := paths.New()
	if err != nil {
		return err
	}

	registryPath := registryFile
	if registryPath == "" {
		registryPath = p.RegistryPath()
		// the default registry location is optional; the built-in
		// defaults alone describe an empty registry
		if _, statErr := os.Stat(registryPath); statErr != nil {
			registryPath = ""
		}
	}

	reg, err := registry.Load(registryPath)
	if err != nil {
		return err
	}

	logger.Info().
		Str("registry", registryPath).
		Int("entries", len(reg.Entries)).
		Bool("dryRun", dryRun).
		Bool("force", force).
		Msg("Starting reconciliation")

	_, err = reconcile.Run(reconcile.Options{
		Registry:    reg,
		DryRun:      dryRun,
		Force:       force,
		BackupsRoot: p.BackupsRoot(),
		Out:         cmd.OutOrStdout(),
	})
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for relink`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relink version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(relink completion bash)

Zsh:
  $ relink completion zsh > "${fpath[1]}/_relink"

Fish:
  $ relink completion fish | source

PowerShell:
  PS> relink completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	Long:  `Generate man page for relink`,
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "RELINK",
			Section: "1",
		}
		return doc.GenManTree(rootCmd, header, "/tmp")
	},
}
