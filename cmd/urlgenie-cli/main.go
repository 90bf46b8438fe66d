package main

import (
	"os"

	"github.com/MikhailRaia/url-genie/internal/cli"
	"github.com/MikhailRaia/url-genie/internal/logger"
)

func main() {
	logger.InitLogger(os.Getenv("LOG_LEVEL"))
	os.Exit(cli.Execute())
}
