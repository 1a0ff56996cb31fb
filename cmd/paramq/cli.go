package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	params "github.com/goliatone/go-params"
)

// CLI is the paramq command line.
type CLI struct {
	File string `arg:"" optional:"" default:"-" help:"YAML or JSON document, '-' for stdin"`

	Query    string `short:"q" xor:"mode" help:"JMESPath expression (default '*')"`
	JSONPath string `name:"jsonpath" xor:"mode" help:"RFC 9535 JSONPath expression"`
	Rule     string `short:"r" xor:"mode" help:"Rule evaluated against the document"`
	Describe bool   `short:"d" xor:"mode" help:"List leaf paths and their types"`

	Engine  string `enum:"expr,cel" default:"expr" help:"Rule engine (${enum})"`
	Order   string `enum:"insertion,sorted,reverse" default:"insertion" help:"Key order when printing the document (${enum})"`
	Format  string `short:"f" enum:"yaml,json" default:"yaml" help:"Output format (${enum})"`
	Verbose bool   `short:"v" help:"Log evaluations to stderr"`
}

// Run parses args and executes paramq, writing results to stdout.
func Run(stdin io.Reader, stdout, stderr io.Writer, exit func(int), args ...string) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("paramq"),
		kong.Description("Query a YAML or JSON document with JMESPath, JSONPath or rules."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	return cli.run(stdin, stdout, stderr)
}

func (c *CLI) run(stdin io.Reader, stdout, stderr io.Writer) error {
	logger := slog.New(slog.DiscardHandler)
	if c.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	opts := []params.Option{
		params.WithName(c.File),
		params.WithIteratorName(c.Order),
		params.WithLogger(logger),
		params.WithEvaluatorLogger(params.SlogEvaluatorLogger(logger)),
		params.WithProgramCache(params.NewMemoryCache()),
	}
	if c.Engine == "cel" {
		opts = append(opts, params.WithEvaluator(params.NewCELEvaluator()))
	}

	input, err := c.open(stdin)
	if err != nil {
		return err
	}
	defer input.Close()
	container, err := params.FromReader(input, append(opts, params.WithMutable(false))...)
	if err != nil {
		return err
	}

	var result any
	switch {
	case c.Query != "":
		result, err = container.Query(c.Query)
	case c.JSONPath != "":
		result, err = container.QueryPath(c.JSONPath)
	case c.Rule != "":
		result, err = container.Evaluate(c.Rule)
	case c.Describe:
		result, err = container.Describe()
	default:
		result, err = ordered(container)
	}
	if err != nil {
		return err
	}
	return c.write(stdout, result)
}

func (c *CLI) open(stdin io.Reader) (io.ReadCloser, error) {
	if c.File == "" || c.File == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(c.File)
}

// ordered lays the top level out in the container's iteration order.
// Sequences keep their index order.
func ordered(c *params.Container) (*params.Container, error) {
	tree, err := c.MarshalYAML()
	if err != nil {
		return nil, err
	}
	if _, ok := tree.([]any); ok {
		return c, nil
	}
	out := yaml.MapSlice{}
	for key, value := range c.All() {
		out = append(out, yaml.MapItem{Key: key, Value: value})
	}
	return params.New(out, params.WithMutable(false))
}

func (c *CLI) write(w io.Writer, result any) error {
	container, isContainer := result.(*params.Container)
	if c.Format == "yaml" {
		if isContainer {
			tree, err := container.MarshalYAML()
			if err != nil {
				return fmt.Errorf("render yaml: %w", err)
			}
			result = tree
		}
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	var (
		raw []byte
		err error
	)
	if isContainer {
		// encoding/json would sort a plain map; the container keeps order.
		raw, err = container.MarshalJSON()
	} else {
		raw, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}
