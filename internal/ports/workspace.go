package ports

import "github.com/aalvaropc/brixcalc/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
