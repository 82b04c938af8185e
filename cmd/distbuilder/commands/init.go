package commands

import (
	"fmt"
	"path/filepath"

	"github.com/wwscc/distbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path, _ := root.configPath()
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultConfigFile)
	}
	out := g.out()
	fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		fmt.Fprintln(out, "Initialization failed")
		return err
	}
	fmt.Fprintln(out, "initialized successfully")
	return nil
}
