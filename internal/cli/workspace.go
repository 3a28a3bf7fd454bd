package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/httpclient"
	"github.com/aalvaropc/brixcalc/internal/infra/logger"
	"github.com/aalvaropc/brixcalc/internal/infra/workspacefinder"
	"github.com/aalvaropc/brixcalc/internal/ports"
	"github.com/aalvaropc/brixcalc/internal/usecase"
)

type workspaceCtx struct {
	// root is empty when running outside a workspace.
	root string
	cfg  domain.Config
}

// loadWorkspace resolves the configuration for a command. An explicit
// workspace must contain brixcalc.yaml; otherwise the nearest workspace above
// the working directory is used and defaults apply when there is none.
func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		root, err := filepath.Abs(w)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace path: %w", err)
		}
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return nil, err
		}
		return &workspaceCtx{root: root, cfg: workspacefinder.ApplyEnv(cfg, os.Getenv)}, nil
	}

	wd, err := workingDir()
	if err != nil {
		return nil, err
	}

	cfg, root, err := workspacefinder.LoadConfigFrom(workspacefinder.NewFinder(), wd)
	if err != nil {
		return nil, err
	}
	return &workspaceCtx{root: root, cfg: workspacefinder.ApplyEnv(cfg, os.Getenv)}, nil
}

// logRoot is where .brixcalc/logs lives for this invocation.
func (ws *workspaceCtx) logRoot() string {
	if ws.root != "" {
		return ws.root
	}
	wd, err := workingDir()
	if err != nil {
		return "."
	}
	return wd
}

// calculator returns the local domain calculator, or a client for a running
// server when remote is set. Both apply the workspace dilution policy.
func (ws *workspaceCtx) calculator(remote string) ports.BalanceCalculator {
	if strings.TrimSpace(remote) != "" {
		return httpclient.NewRemoteCalculator(remote).WithDilutionPolicy(ws.cfg.Calculation.Dilution)
	}
	return usecase.NewLocalCalculator(ws.cfg.NewCalculator())
}

func (ws *workspaceCtx) computeUseCase(calc ports.BalanceCalculator, rec ports.BalanceRecorder, log *slog.Logger) *usecase.ComputeBalance {
	opts := []usecase.ComputeOption{usecase.WithLogger(log)}
	if rec != nil {
		opts = append(opts, usecase.WithRecorder(rec))
	}
	return usecase.NewComputeBalance(calc, opts...)
}

func setupLogging(root string, debug, stderr bool) func() {
	cleanup, err := logger.Setup(logger.Config{
		Root:   root,
		Debug:  debug,
		Stderr: stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	return func() {
		if cleanup != nil {
			_ = cleanup()
		}
	}
}

func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	abs, err := filepath.Abs(wd)
	if err != nil {
		return wd, nil
	}
	return abs, nil
}
