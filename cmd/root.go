// Package cmd implements the command-line interface for blogcrawl.
// It provides the root command and subcommands for crawling article
// platforms.
package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minkyu-dev/blogcrawl/cmd/crawl"
	"github.com/minkyu-dev/blogcrawl/cmd/platforms"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the blogcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "blogcrawl",
		Short: "Harvest article metadata from Korean publishing platforms",
		Long: `blogcrawl crawls search-result listings on Naver Blog, Tistory,
Velog, and Saramin, fetches each discovered article, and writes the
extracted title, body, and date to a JSON file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are visible to viper.
	_ = godotenv.Load()

	// Parse flags early so --debug reaches the logger construction.
	_ = rootCmd.ParseFlags(os.Args[1:])

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: none, built-in defaults apply)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")

	rootCmd.AddCommand(crawl.Command(&cfgFile, &debug))
	rootCmd.AddCommand(platforms.Command())
}
