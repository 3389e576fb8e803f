package ctrl

import (
	"github.com/openziti/tachyon/cmd/tachyon/tachyon"
	"github.com/spf13/cobra"
)

func init() {
	tachyon.RootCmd.AddCommand(ctrlCmd)
}

var ctrlCmd = &cobra.Command{
	Use:   "ctrl",
	Short: "Control metrics instruments",
}
