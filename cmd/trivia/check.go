package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia/internal/trivia/models"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe every enabled source and report its health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, root.stderr)
			if err != nil {
				return err
			}

			health := a.service.Check(cmd.Context(), a.sources)

			down := 0
			for _, src := range a.sources {
				err := health[src.Name()]
				if err == nil {
					fmt.Fprintf(root.stdout, "%-12s ok\n", src.Name())
					continue
				}
				down++
				fmt.Fprintf(root.stdout, "%-12s FAIL %s: %v\n", src.Name(), models.KindOf(err), err)
			}
			if down > 0 {
				return fmt.Errorf("%d of %d sources unreachable", down, len(a.sources))
			}
			return nil
		},
	}
}
