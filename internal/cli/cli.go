package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/spf13/cobra"
)

var ServerConfig config.RemoteServerConf

var rootCmd = &cobra.Command{
	Use:   "archbench-cli",
	Short: "CLI utility for archbench",
	Long:  `CLI utility to invoke the benchmark function and compare the ARM64 and x86_64 deployments.`,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Runs a benchmark operation",
	Run:   invoke,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compares the ARM64 and x86_64 deployments",
	Run:   runCompare,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the statistics of a local server",
	Run:   getStatus,
}

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "Lists the supported operations",
	Run:   listOperations,
}

var operation, compareOperation, targetURL, arm64URL, x86URL string
var params []string
var requests int
var pause time.Duration
var jsonOutput, verbose bool

func Init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ServerConfig.Host, "host", "H", ServerConfig.Host, "local archbench host")
	rootCmd.PersistentFlags().IntVarP(&ServerConfig.Port, "port", "P", ServerConfig.Port, "local archbench port")

	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().StringVarP(&operation, "operation", "o", "", "benchmark operation")
	invokeCmd.Flags().StringVarP(&targetURL, "url", "u", "", "endpoint to invoke (default: local server)")
	invokeCmd.Flags().StringSliceVarP(&params, "param", "p", nil, "Request parameter: <name>:<value>")

	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareOperation, "operation", "o", "all", "benchmark operation, or 'all' for the standard suite")
	compareCmd.Flags().StringVar(&arm64URL, "arm64-url", "", "ARM64 endpoint")
	compareCmd.Flags().StringVar(&x86URL, "x86-url", "", "x86_64 endpoint")
	compareCmd.Flags().IntVarP(&requests, "requests", "n", 3, "requests per architecture")
	compareCmd.Flags().DurationVar(&pause, "pause", time.Second, "delay between consecutive requests")
	compareCmd.Flags().StringSliceVarP(&params, "param", "p", nil, "Request parameter: <name>:<value>")
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the analysis as JSON")
	compareCmd.MarkFlagRequired("arm64-url")
	compareCmd.MarkFlagRequired("x86-url")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(operationsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func localURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", ServerConfig.Host, ServerConfig.Port, path)
}
