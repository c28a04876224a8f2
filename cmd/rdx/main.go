/*
rdx is a console utility working with grammar descriptions.
Usage is

	rdx [-c <config>] [-v] [--no-color] <command> [<flags>] <args>

Commands are:

	check <grammar>...          validate grammar descriptions and report rules unreachable from axiom;
	parse <grammar> <file>...   parse files and print axiom values as JSON or YAML,
	                            a file may contain multiple samples delimited by separator lines;
	tokens <grammar> <file>     print token stream of a file;
	gen <grammar>               translate grammar description to Go or JSON file.

-c <config> defines TOML file with default settings:

	axiom = "START"        # default axiom
	format = "json"        # parse output format, json or yaml
	jobs = 4               # number of files parsed concurrently
	lexer = "longest"      # lexer strategy overriding grammar options
	trace_depth = 8        # number of rule names shown in trace

	[options]              # grammar options applied after "set" statements
	ignorecase = true

Command line flags override configuration file settings.
Exit code is 2 for incorrect usage, 3 if any grammar or input failed.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	usageExit = 2
	errorExit = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env holds settings and outputs shared by commands.
type env struct {
	cfg    config
	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func newEnv(stdout, stderr io.Writer, verbose bool) *env {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return &env{cfg: defaultConfig(), log: log, stdout: stdout, stderr: stderr}
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

func (c *env) failure(e error) {
	errorColor.Fprintln(c.stderr, "error:", e.Error())
}

func (c *env) warning(format string, params ...any) {
	warningColor.Fprintln(c.stderr, "warning:", fmt.Sprintf(format, params...))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("rdx", "Backtracking parser toolkit.")
	app.HelpFlag.Short('h')
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	configFile := app.Flag("config", "TOML file with default settings").Short('c').ExistingFile()
	verbose := app.Flag("verbose", "log progress to stderr").Short('v').Bool()
	noColor := app.Flag("no-color", "disable colored diagnostics").Bool()
	lexerName := app.Flag("lexer", "lexer strategy overriding grammar options").Short('l').String()
	axiom := app.Flag("axiom", "axiom rule name overriding grammar options").Short('a').String()

	checkCmd := app.Command("check", "validate grammar descriptions")
	checkFiles := checkCmd.Arg("grammar", "grammar description files").Required().ExistingFiles()

	parseCmd := app.Command("parse", "parse files and print axiom values")
	parseGrammar := parseCmd.Arg("grammar", "grammar description file").Required().ExistingFile()
	parseFiles := parseCmd.Arg("file", "files to parse").Required().ExistingFiles()
	parseFormat := parseCmd.Flag("format", "output format").Short('f').Enum(jsonFormat, yamlFormat)
	parseJobs := parseCmd.Flag("jobs", "number of files parsed concurrently").Short('j').Int()
	parseTrace := parseCmd.Flag("trace", "log every token match attempt").Short('t').Bool()
	parseTimeout := parseCmd.Flag("timeout", "time limit for parsing all files, e.g. 10s").Duration()
	parseSamples := parseCmd.Flag("samples", "files contain multiple samples, the first line is the separator").Short('m').Bool()
	parsePrefix := parseCmd.Flag("sample-prefix", "treat a file as multiple samples if it starts with this string").Short('s').String()
	parseExpectError := parseCmd.Flag("expect-error", "every sample must fail to parse").Short('e').Bool()

	tokensCmd := app.Command("tokens", "print token stream")
	tokensGrammar := tokensCmd.Arg("grammar", "grammar description file").Required().ExistingFile()
	tokensFile := tokensCmd.Arg("file", "file to tokenize").Required().ExistingFile()

	genCmd := app.Command("gen", "translate grammar description to Go or JSON file")
	genGrammar := genCmd.Arg("grammar", "grammar description file").Required().ExistingFile()
	genJson := genCmd.Flag("json", "output JSON instead of Go").Short('j').Bool()
	genOutput := genCmd.Flag("output", "output file name, default is the name of input file with .go or .json suffix").Short('o').String()
	genPackage := genCmd.Flag("package", "Go package name, default is dir name of output file").Short('p').String()
	genVar := genCmd.Flag("var", "Go variable name, default is the axiom name").String()

	command, e := app.Parse(args)
	if e != nil {
		fmt.Fprintln(stderr, "rdx:", e.Error())
		return usageExit
	}

	if *noColor {
		color.NoColor = true
	}

	c := newEnv(stdout, stderr, *verbose)
	if *configFile != "" {
		e = c.cfg.load(*configFile, c.log)
		if e != nil {
			c.failure(e)
			return usageExit
		}
	}
	c.cfg.override(*lexerName, *axiom, *parseFormat, *parseJobs)
	e = c.cfg.validate()
	if e != nil {
		c.failure(e)
		return usageExit
	}

	var failed bool
	switch command {
	case checkCmd.FullCommand():
		failed = c.check(*checkFiles)
	case parseCmd.FullCommand():
		failed = c.parse(*parseGrammar, *parseFiles, parseSettings{
			trace:        *parseTrace,
			timeout:      *parseTimeout,
			samples:      *parseSamples,
			samplePrefix: *parsePrefix,
			expectError:  *parseExpectError,
		})
	case tokensCmd.FullCommand():
		failed = c.tokens(*tokensGrammar, *tokensFile)
	case genCmd.FullCommand():
		failed = c.gen(*genGrammar, genSettings{
			json:        *genJson,
			outFileName: *genOutput,
			packageName: *genPackage,
			varName:     *genVar,
		})
	}

	if failed {
		return errorExit
	}
	return 0
}
