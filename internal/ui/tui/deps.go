package tui

import (
	"log/slog"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/ports"
	"github.com/aalvaropc/brixcalc/internal/usecase"
)

type Deps struct {
	Config  domain.Config
	Compute *usecase.ComputeBalance

	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	Logger *slog.Logger
	Debug  bool
}
