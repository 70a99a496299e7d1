package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/prebundle/internal/domain"
	"github.com/aalvaropc/prebundle/internal/usecase"
)

func cmdRefreshProject(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return projectRefreshedMsg{err: fmt.Errorf("getwd: %w", err)}
		}

		root := deps.Root
		if root == "" {
			if deps.ProjectLocator == nil {
				return projectRefreshedMsg{cwd: wd, err: errors.New("ProjectLocator is nil")}
			}
			found, findErr := deps.ProjectLocator.FindRoot(wd)
			if findErr != nil {
				return projectRefreshedMsg{cwd: wd, err: findErr}
			}
			root = found
		}

		if deps.ConfigLoader == nil || deps.Locator == nil {
			return projectRefreshedMsg{cwd: wd, found: true, root: root, err: errors.New("status dependencies are nil")}
		}
		cfg, err := deps.ConfigLoader(root)
		if err != nil {
			return projectRefreshedMsg{cwd: wd, found: true, root: root, err: err}
		}

		status := usecase.NewStatus(deps.Locator).Execute(root, cfg)
		return projectRefreshedMsg{cwd: wd, found: true, root: root, cfg: cfg, status: status}
	}
}

func cmdInitProjectHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.ProjectInitializer == nil {
			return initProjectDoneMsg{root: root, err: errors.New("ProjectInitializer is nil")}
		}

		err := usecase.NewInitProject(deps.ProjectInitializer).Execute(root, false)
		return initProjectDoneMsg{root: root, err: err}
	}
}

func listenProducer(ch <-chan produceDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return produceDoneMsg{err: errors.New("producer channel closed")}
		}
		return msg
	}
}

func startProduceAsync(deps Deps, root string, cfg domain.Config) (chan produceDoneMsg, tea.Cmd) {
	ch := make(chan produceDoneMsg, 1)

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	go func() {
		defer close(ch)

		if deps.NewProducer == nil {
			ch <- produceDoneMsg{err: errors.New("producer is not configured")}
			return
		}

		log.Info("tui.produce.start", "root", root, "debug", deps.Debug)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		res, err := deps.NewProducer().Execute(ctx, root, cfg)
		if err != nil {
			log.Error("tui.produce.failed", "err", err)
		} else {
			log.Info("tui.produce.ok", "manifests", len(res.Manifests), "duration_ms", res.Duration().Milliseconds())
		}

		ch <- produceDoneMsg{result: res, err: err}
	}()

	return ch, listenProducer(ch)
}
