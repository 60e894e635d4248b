package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-signals/internal/browser"
	"github.com/urfave/cli/v3"
)

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Browse saved reports in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "reports",
				Usage: "Directory containing saved reports",
				Value: "reports",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, err := browser.NewModel(cmd.String("reports"))
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

			return err
		},
	}
}
