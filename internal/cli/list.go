package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"project_switcher/internal/logging"
	"project_switcher/internal/picker"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Scan once and print every project as name<TAB>path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog, err := logging.Init(cfg.Log, version)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			scanner, err := newScanner(cfg, logger)
			if err != nil {
				return err
			}
			entries, err := scanner.Scan(cmd.Context())
			if err != nil {
				return err
			}

			// Same catalog the picker would show, with nothing excluded
			engine := picker.New(cfg.DefaultProjects(), "")
			engine.Merge(entries)

			out := cmd.OutOrStdout()
			for _, name := range engine.Filtered() {
				path, _ := engine.Path(name)
				if _, err := fmt.Fprintf(out, "%s\t%s\n", name, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
