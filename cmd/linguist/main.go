package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidkellis/linguist"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorRed   = "\033[1;31m"
	colorCyan  = "\033[1;36m"
	colorGray  = "\033[0;37m"
)

var log = logrus.New()

var (
	grammarPath string
	verbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "linguist",
		Short:         "General parser for ambiguous context-free grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVarP(&grammarPath, "grammar", "g", "", "path to the grammar notation file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log grammar and forest statistics")

	root.AddCommand(recognizeCmd())
	root.AddCommand(parseCmd())
	root.AddCommand(replCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%serror%s: %s\n", colorRed, colorReset, err)
		os.Exit(1)
	}
}

// loadParser reads the grammar notation file and builds the parser,
// logging any disambiguation rule that was dropped during resolution
func loadParser() (*linguist.Parser, error) {
	if grammarPath == "" {
		return nil, fmt.Errorf("grammar not informed, use --grammar")
	}
	data, err := os.ReadFile(grammarPath)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	g, err := linguist.ParseNotation(string(data))
	if err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", grammarPath, err)
	}
	p, err := linguist.NewParser(g)
	if err != nil {
		return nil, err
	}
	for _, w := range p.Warnings() {
		log.Warn(w)
	}
	log.Debugf("grammar %s: %d productions, start %s",
		grammarPath, len(g.Productions()), g.Start())
	return p, nil
}

// readInput takes the input from the argument list, or from stdin
// when no argument is given
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func recognizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recognize [input]",
		Short: "Decide whether the input belongs to the grammar's language",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParser()
			if err != nil {
				return err
			}
			input, err := readInput(args)
			if err != nil {
				return err
			}
			if !p.Recognize(input) {
				fmt.Println("no parse")
				os.Exit(1)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	var (
		maxTrees   int
		format     string
		traceChart bool
		noColor    bool
	)
	cmd := &cobra.Command{
		Use:   "parse [input]",
		Short: "Parse the input and print the surviving trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParser()
			if err != nil {
				return err
			}
			input, err := readInput(args)
			if err != nil {
				return err
			}

			cfg := linguist.NewConfig()
			cfg.SetInt("trees.max", maxTrees)
			cfg.SetString("print.format", format)
			cfg.SetBool("trace.chart", traceChart)
			cfg.SetBool("trace.forest", verbose)
			cfg.SetBool("print.color", !noColor)
			return runParse(p, cfg, input, os.Stdout)
		},
	}
	cmd.Flags().IntVar(&maxTrees, "max", 10, "print at most this many trees, 0 for all of them")
	cmd.Flags().StringVar(&format, "format", "tree", "tree output format: tree or bracket")
	cmd.Flags().BoolVar(&traceChart, "trace-chart", false, "dump the recognizer's chart before the trees")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors in the tree output")
	return cmd
}

// runParse is the shared driver behind `linguist parse` and the REPL
func runParse(p *linguist.Parser, cfg *linguist.Config, input string, out io.Writer) error {
	if cfg.GetBool("trace.chart") {
		dumpChart(p, input, out)
	}

	forest := p.Parse(input)
	for _, w := range forest.Warnings() {
		log.Warn(w)
	}
	if cfg.GetBool("trace.forest") {
		log.Debugf("forest holds %d nodes over %d roots", forest.NodeCount(), len(forest.Roots()))
	}

	count := forest.Count()
	if count == 0 {
		fmt.Fprintln(out, "no parse")
		return nil
	}
	fmt.Fprintf(out, "%d tree(s)\n", count)

	trees := forest.Trees().Collect(cfg.GetInt("trees.max"))
	formatFn := colorFormat(cfg.GetBool("print.color"))
	for i, tree := range trees {
		if cfg.GetString("print.format") == "bracket" {
			fmt.Fprintf(out, "%d: %s\n", i+1, tree)
			continue
		}
		fmt.Fprintf(out, "── tree %d ──\n%s\n", i+1, tree.Format(formatFn))
	}
	if count > len(trees) {
		fmt.Fprintf(out, "… %d more\n", count-len(trees))
	}
	return nil
}

// dumpChart renders the recognizer's item sets as a table
func dumpChart(p *linguist.Parser, input string, out io.Writer) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Set", "Item", "Origin", "Complete"})
	table.SetAutoWrapText(false)
	for _, entry := range p.ChartEntries(input) {
		complete := ""
		if entry.Complete {
			complete = "✓"
		}
		table.Append([]string{
			fmt.Sprintf("%d", entry.Set),
			entry.Item,
			fmt.Sprintf("%d", entry.Origin),
			complete,
		})
	}
	table.Render()
}

// colorFormat decorates printed tree fragments with ANSI colors
func colorFormat(enabled bool) linguist.FormatFn {
	return func(input string, token linguist.FormatToken) string {
		if !enabled {
			return input
		}
		switch token {
		case linguist.FormatToken_Literal:
			return colorCyan + input + colorReset
		case linguist.FormatToken_Range:
			return colorGray + input + colorReset
		case linguist.FormatToken_Error:
			return colorRed + input + colorReset
		default:
			return input
		}
	}
}
