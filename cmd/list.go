package cmd

import (
	"log"
	"os"

	"zenget/internal/app"
	"zenget/internal/ui"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <record-id-or-url>",
	Short: "List the files of a Zenodo record without downloading",
	Long: `Resolve a Zenodo record and print a table of its files with their
sizes and checksums. Nothing is downloaded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runListApp(args[0]); err != nil {
			log.Fatalf("List failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// runListApp creates and runs the listing application
func runListApp(recordRef string) error {
	ctx := createContext()

	listApp := app.NewListApp(createResolver())
	record, err := listApp.Run(ctx, recordRef)
	if err != nil {
		return err
	}

	return ui.RenderFileList(os.Stdout, record)
}
