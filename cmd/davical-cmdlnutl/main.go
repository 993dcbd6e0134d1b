package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/ledeuns/davical-cmdlnut/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
