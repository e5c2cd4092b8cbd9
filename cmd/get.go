package cmd

import (
	"fmt"
	"log"
	"os"

	"zenget/internal/app"
	"zenget/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type GetFlags struct {
	FilterKeyword string
	OutputDir     string
	Workers       int
}

var getFlags GetFlags

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <record-id-or-url>",
	Short: "Download all files of a Zenodo record",
	Long: `Download every file of a Zenodo record to local storage. This will:

1. Resolve the record metadata via the Zenodo API
2. Create a directory named Zenodo_<id>_<title> under the output root
3. Download each file, resuming partial files from their current length
4. Retry transient network failures indefinitely with backoff

Use --filter to download only files whose name contains the keyword.
The exit status is nonzero if any file ended in a fatal failure.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateGetFlags(&getFlags)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGetApp(args[0], &getFlags); err != nil {
			log.Fatalf("Download failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	// Define flags with struct binding
	getCmd.Flags().StringVarP(&getFlags.FilterKeyword, "filter", "f", "", "Only download files whose name contains this keyword")
	getCmd.Flags().StringVarP(&getFlags.OutputDir, "output", "o", "", "Output root directory (default: current directory)")
	getCmd.Flags().IntVarP(&getFlags.Workers, "workers", "w", 0, "Number of files to download in parallel")

	// Bind flags to viper for environment variable support
	viper.BindPFlag("get.filter", getCmd.Flags().Lookup("filter"))
	viper.BindPFlag("get.output", getCmd.Flags().Lookup("output"))
	viper.BindPFlag("get.workers", getCmd.Flags().Lookup("workers"))
}

// validateGetFlags validates the get command flags
func validateGetFlags(flags *GetFlags) error {
	if flags.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// runGetApp creates and runs the download application
func runGetApp(recordRef string, flags *GetFlags) error {
	ctx := createContext()

	opts := &app.GetOptions{
		RecordRef:     recordRef,
		FilterKeyword: flags.FilterKeyword,
		OutputDir:     flags.OutputDir,
		Workers:       flags.Workers,
	}

	getApp := app.NewGetApp(cfg, createResolver(), ui.NewProgressUI())
	summary, err := getApp.Run(ctx, opts)
	if summary != nil {
		if renderErr := ui.RenderSummary(os.Stdout, summary); renderErr != nil {
			log.Printf("Warning: could not render summary: %v", renderErr)
		}
	}
	if err != nil {
		return err
	}

	if _, _, failed := summary.Counts(); failed > 0 {
		os.Exit(1)
	}
	return nil
}
