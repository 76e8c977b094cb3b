package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/buildstate"
	"git.home.luguber.info/inful/sitebuilder/internal/scaffold"
)

// ScaffoldCmd implements the 'scaffold' command.
type ScaffoldCmd struct {
	Name    string   `arg:"" help:"Display name of the site"`
	Dir     string   `short:"d" help:"Target directory (defaults to the slug of the name)"`
	Builder string   `help:"Site assembly strategy" enum:"template,custom" default:"template"`
	Slots   []string `help:"Image slot names to prepare (defaults to a standard set)"`
}

func (n *ScaffoldCmd) Run(_ *Global, _ *CLI) error {
	dir, err := scaffold.Create(context.Background(), scaffold.Options{
		Name:    n.Name,
		Dir:     n.Dir,
		Builder: buildstate.BuilderType(n.Builder),
		Slots:   n.Slots,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created project in %s\n", dir)
	fmt.Println("Fill in the placeholders in site.yaml and the context documents to start the brief phase.")
	return nil
}
