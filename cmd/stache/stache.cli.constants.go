package main

// Command names
const (
	CmdNameRender = "render"
	CmdNameCheck  = "check"
	CmdNameHelp   = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagConfig   = "config"
	FlagPartials = "partials"
	FlagFormat   = "format"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagConfigShort   = "c"
	FlagPartialsShort = "p"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeCheckError = 3
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand  = "unknown command"
	ErrMsgMissingTemplate = "template source required"
	ErrMsgInvalidJSON     = "invalid JSON data"
	ErrMsgReadFileFailed  = "failed to read file"
	ErrMsgWriteFailed     = "failed to write output"
	ErrMsgParseFailed     = "template parsing failed"
	ErrMsgRenderFailed    = "template rendering failed"
	ErrMsgConfigFailed    = "failed to load config"
	ErrMsgPartialsFailed  = "failed to load partials"
	ErrMsgInvalidFormat   = "invalid output format"
)

// Output messages
const (
	MsgCheckOK = "OK"
)

// File permissions for output files
const (
	FilePermissions = 0644
)

// Format strings
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtErrorWrap       = "%s: %w"
)

// Help text templates
const (
	HelpMainUsage = `go-stache - Mustache template rendering CLI

Usage:
    stache <command> [options]

Commands:
    render      Render a template with data
    check       Parse a template and report syntax errors
    help        Show help for a command

Use "stache help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    stache render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       JSON data string
    -f, --data-file <file>  JSON data file
    -p, --partials <file>   YAML manifest of named partials
    -c, --config <file>     Engine config file (YAML or JSON)
    -o, --output <file>     Output file (default: stdout)

Examples:
    stache render -t page.mustache -d '{"name": "Alice"}'
    stache render -t page.mustache -f data.json -p partials.yaml
    cat page.mustache | stache render -t - -d '{"name": "Bob"}'`

	HelpCheckUsage = `Parse a template and report syntax errors

Usage:
    stache check [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    stache check -t page.mustache
    cat page.mustache | stache check -t -`

	HelpHelpUsage = `Show help for a command

Usage:
    stache help [command]

Commands:
    render      Show help for render command
    check       Show help for check command`
)
