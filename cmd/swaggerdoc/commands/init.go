package commands

import (
	"fmt"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Fprintf(root.stdout(), "Wrote example configuration to %s\n", root.Config)
	return nil
}
