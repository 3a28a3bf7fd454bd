package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/brixcalc/internal/infra/fsworkspace"
	"github.com/aalvaropc/brixcalc/internal/infra/logger"
	"github.com/aalvaropc/brixcalc/internal/infra/workspacefinder"
	"github.com/aalvaropc/brixcalc/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "brixcalc",
		Short:        "brixcalc: sugar needed to reach a target °Brix",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace("")
			if err != nil {
				return err
			}

			defer setupLogging(ws.logRoot(), debug, false)()
			log := logger.L()

			deps := tui.Deps{
				Config:               ws.cfg,
				Compute:              ws.computeUseCase(ws.calculator(""), nil, log),
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               log,
				Debug:                debug,
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .brixcalc/logs/brixcalc.log")

	cmd.AddCommand(
		computeCmd(),
		serveCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}
