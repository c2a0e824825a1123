package main

import (
	"github.com/grussorusso/archbench/internal/cli"
	"github.com/grussorusso/archbench/internal/config"
)

func main() {
	config.ReadConfiguration("")

	// Set defaults
	cli.ServerConfig.Host = "127.0.0.1"
	cli.ServerConfig.Port = config.GetInt(config.API_PORT, 1323)

	cli.Init()
}
