package cli

import (
	"fmt"
	"os"

	"github.com/grussorusso/archbench/utils"
	"github.com/spf13/cobra"
)

func getStatus(cmd *cobra.Command, args []string) {
	resp, err := utils.GetJson(localURL("/status"))
	if err != nil {
		fmt.Printf("Status request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func listOperations(cmd *cobra.Command, args []string) {
	resp, err := utils.GetJson(localURL("/operations"))
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}
