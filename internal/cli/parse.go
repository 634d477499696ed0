package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/simgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("simgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
simgridgo - declarative assembly and persistence for simulated networks.

Usage:
  simgridgo [options] [MODEL_PATH]

Arguments:
  MODEL_PATH
    Path to a saved model directory (containing ops.json, commands.json,
    components.json).

Options:
`)
		flagSet.PrintDefaults()
	}

	modelFlag := flagSet.String("model", "", "Path to the saved model directory.")
	mFlag := flagSet.String("m", "", "Path to the saved model directory (shorthand).")
	manifestFlag := flagSet.String("manifest-path", "", "Path to the directory containing module manifest files.")
	contextFlag := flagSet.String("context", "model", "Name of the context the model is loaded into.")
	outFlag := flagSet.String("out", "", "Directory to re-save the reconstructed model under. Empty disables the round trip.")
	customFlag := flagSet.String("custom-folder", "custom", "Name of the custom data folder inside the model directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *modelFlag != "" {
		path = *modelFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ModelPath:    path,
		ManifestPath: *manifestFlag,
		ContextName:  *contextFlag,
		OutDir:       *outFlag,
		CustomFolder: *customFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
