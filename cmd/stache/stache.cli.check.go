package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-stache"
)

// checkConfig holds parsed check command configuration
type checkConfig struct {
	templatePath string
	format       string
}

// checkOutput represents JSON output for check
type checkOutput struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseCheckFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	// Read template
	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	// Parse without rendering
	engine := stache.New()
	_, parseErr := engine.Compile(context.Background(), string(templateSource))

	if cfg.format == OutputFormatJSON {
		return outputCheckJSON(parseErr, stdout)
	}
	return outputCheckText(parseErr, stdout, stderr)
}

func parseCheckFlags(args []string) (*checkConfig, error) {
	fs := flag.NewFlagSet(CmdNameCheck, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &checkConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputCheckText(parseErr error, stdout, stderr io.Writer) int {
	if parseErr != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseFailed, parseErr)
		return ExitCodeCheckError
	}
	fmt.Fprintln(stdout, MsgCheckOK)
	return ExitCodeSuccess
}

func outputCheckJSON(parseErr error, stdout io.Writer) int {
	output := checkOutput{Valid: parseErr == nil}
	if parseErr != nil {
		output.Error = parseErr.Error()
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeCheckError
	}
	return ExitCodeSuccess
}
