package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"zenget/internal/config"
	"zenget/internal/resolver"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zenget",
	Short: "zenget - resumable Zenodo dataset downloader",
	Long: `zenget downloads all files of a Zenodo record to local storage.

Interrupted downloads are resumed from the exact byte where they stopped,
using the local file length as the resume offset and HTTP range requests
to fetch only the missing tail. Transient network failures are retried
indefinitely with backoff, so the tool is usable on deliberately unstable
connections.

Usage:
  Download a record:  zenget get https://zenodo.org/records/1234567
  List its files:     zenget list 1234567`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize viper configuration
		initConfig()

		// Initialize configuration
		cfg = config.NewDefaultConfig()
		applyConfigOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zenget.yaml)")

	// Set up viper environment variable support
	viper.SetEnvPrefix("ZENGET")
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: Could not find home directory: %v", err)
			return
		}

		// Search config in home directory with name ".zenget" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".zenget")
	}

	// Read in environment variables that match
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// applyConfigOverrides applies config file and environment values on top
// of the defaults
func applyConfigOverrides(cfg *config.Config) {
	if viper.IsSet("resolver.base_url") {
		cfg.Resolver.BaseURL = viper.GetString("resolver.base_url")
	}
	if viper.IsSet("resolver.timeout") {
		cfg.Resolver.Timeout = viper.GetDuration("resolver.timeout")
	}
	if viper.IsSet("transfer.output_dir") {
		cfg.Transfer.OutputDir = viper.GetString("transfer.output_dir")
	}
	if viper.IsSet("transfer.chunk_size") {
		cfg.Transfer.ChunkSize = viper.GetInt("transfer.chunk_size")
	}
	if viper.IsSet("transfer.workers") {
		cfg.Transfer.Workers = viper.GetInt("transfer.workers")
	}
	if viper.IsSet("transfer.retry_delay") {
		cfg.Transfer.RetryDelay = viper.GetDuration("transfer.retry_delay")
	}
	if viper.IsSet("transfer.max_retry_delay") {
		cfg.Transfer.MaxRetryDelay = viper.GetDuration("transfer.max_retry_delay")
	}
	if viper.IsSet("transfer.attempt_timeout") {
		cfg.Transfer.AttemptTimeout = viper.GetDuration("transfer.attempt_timeout")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// createContext creates a context that cancels on interrupt signals
func createContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	return ctx
}

// createResolver creates the metadata resolver from the configuration
func createResolver() resolver.Resolver {
	return resolver.NewZenodoResolver(cfg.Resolver.BaseURL, cfg.Resolver.Timeout)
}
