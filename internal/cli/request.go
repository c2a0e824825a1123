package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grussorusso/archbench/utils"
	"github.com/spf13/cobra"
)

// parseParams turns name:value pairs into request fields. Integer values
// are sent as JSON numbers, anything else as strings.
func parseParams(raw []string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for _, rawParam := range raw {
		tokens := strings.Split(rawParam, ":")
		if len(tokens) < 2 || tokens[0] == "" {
			return nil, fmt.Errorf("invalid parameter '%s': expected <name>:<value>", rawParam)
		}
		value := strings.Join(tokens[1:], ":")
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			out[tokens[0]] = i
		} else {
			out[tokens[0]] = value
		}
	}
	return out, nil
}

func invoke(cmd *cobra.Command, args []string) {
	if len(operation) < 1 {
		fmt.Printf("Invalid operation.\n")
		cmd.Help()
		return
	}

	request, err := parseParams(params)
	if err != nil {
		fmt.Println(err)
		cmd.Help()
		return
	}
	request["operation"] = operation
	invocationBody, err := json.Marshal(request)
	if err != nil {
		cmd.Help()
		return
	}

	url := targetURL
	if url == "" {
		url = localURL("/invoke")
	}
	if verbose {
		fmt.Printf("POST %s %s\n", url, invocationBody)
	}

	resp, err := utils.PostJson(url, invocationBody)
	if err != nil {
		fmt.Printf("Invocation failed: %v\n", err)
		if resp != nil {
			utils.PrintJsonResponse(resp.Body)
		}
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}
