package tui

import (
	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

type projectRefreshedMsg struct {
	cwd    string
	found  bool
	root   string
	cfg    domain.Config
	status usecase.StatusReport
	err    error
}

type initProjectDoneMsg struct {
	root string
	err  error
}

type produceDoneMsg struct {
	result domain.BuildResult
	err    error
}
