package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apexframe/apex/internal/config"
	"github.com/apexframe/apex/internal/dev"
)

func buildCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile-check every template in the project",
		Long: `Compile every template under the configured template directories
and report parse errors with their byte offsets.

Examples:
  apex build
  apex build --dir=./myapp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory containing apex.yaml")

	return cmd
}

func runBuild(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	programs, errs := dev.CompileAll(cfg.Templates.Dirs, cfg.Templates.Ext)
	for _, e := range errs {
		errorMsg("%s", e.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d templates failed", len(errs), len(programs)+len(errs))
	}
	if len(programs) == 0 {
		info("no %s templates found under %v", cfg.Templates.Ext, cfg.Templates.Dirs)
		return nil
	}

	success("compiled %d templates", len(programs))
	return nil
}
