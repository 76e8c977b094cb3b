package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
)

// ImagesCmd implements the 'images' command.
type ImagesCmd struct{}

func (i *ImagesCmd) Run(_ *Global, root *CLI) error {
	report, err := assets.Sync(context.Background(), root.Project)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d image(s), %d byte(s), across %d slot(s)\n", report.Images, report.Bytes, report.Slots)
	if len(report.EmptySlots) > 0 {
		fmt.Printf("Still empty: %s\n", strings.Join(report.EmptySlots, ", "))
	}
	return nil
}
