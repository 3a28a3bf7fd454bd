package tui

import "github.com/aalvaropc/brixcalc/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

// balanceComputedMsg carries the sequence number of the request so that
// results superseded by a later keystroke are dropped.
type balanceComputedMsg struct {
	seq     int
	balance domain.Balance
	err     error
}
