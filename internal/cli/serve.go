package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/brixcalc/internal/buildinfo"
	"github.com/aalvaropc/brixcalc/internal/infra/httpserver"
	"github.com/aalvaropc/brixcalc/internal/infra/logger"
	"github.com/aalvaropc/brixcalc/internal/infra/metrics"
	"github.com/aalvaropc/brixcalc/internal/infra/workspacefinder"
)

func serveCmd() *cobra.Command {
	var workspace string
	var addr string
	var logStderr bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as an HTML form and a JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			if a := strings.TrimSpace(addr); a != "" {
				ws.cfg.Server.Addr = a
			}

			debug, _ := cmd.Flags().GetBool("debug")
			defer setupLogging(ws.logRoot(), debug, logStderr)()

			reg := metrics.NewRegistry()
			log := logger.L()

			srv := httpserver.New(ws.cfg, httpserver.Deps{
				Compute: ws.computeUseCase(ws.calculator(""), reg, log),
				Metrics: reg,
				Logger:  log,
				Version: buildinfo.Version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.Printf("brixcalc listening on http://%s\n", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&addr, "addr", "", "Listen address (default from config or "+workspacefinder.EnvAddr+")")
	c.Flags().BoolVar(&logStderr, "log-stderr", false, "Write logs to stderr instead of .brixcalc/logs")
	return c
}
