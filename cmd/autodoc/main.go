package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/temirov/autodoc/internal/cli"
	"github.com/temirov/autodoc/internal/utils"
)

// main is the entry point for the autodoc command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if environmentError := godotenv.Load(); environmentError != nil && !errors.Is(environmentError, fs.ErrNotExist) {
		loggerInstance.Warn("Ignoring unreadable .env file: " + environmentError.Error())
	}
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
