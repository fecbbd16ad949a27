package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/davidkellis/linguist"
)

const historyFile = ".linguist_history"

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively parse inputs against the grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParser()
			if err != nil {
				return err
			}
			return runRepl(p, linguist.NewConfig())
		},
	}
}

func runRepl(p *linguist.Parser, cfg *linguist.Config) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("grammar %s, start symbol %s\n", grammarPath, p.Grammar().Start())
	fmt.Println("type an input to parse it, :help for commands")

	for {
		input, err := line.Prompt("linguist> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if input != "" {
			line.AppendHistory(input)
		}
		if strings.HasPrefix(input, ":") {
			if quit := replCommand(p, cfg, input); quit {
				return nil
			}
			continue
		}
		if err := runParse(p, cfg, input, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// replCommand handles `:` commands, returning true on quit
func replCommand(p *linguist.Parser, cfg *linguist.Config, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":q", ":quit":
		return true

	case ":help":
		fmt.Println(":set <key> <value>  change a setting, e.g. :set trees.max 3")
		fmt.Println(":settings           show the current settings")
		fmt.Println(":grammar            show the loaded grammar")
		fmt.Println(":chart <input>      dump the recognizer's chart for an input")
		fmt.Println(":q, :quit           leave the repl")

	case ":set":
		if len(fields) != 3 {
			fmt.Println("usage: :set <key> <value>")
			return false
		}
		if err := cfg.Set(fields[1], fields[2]); err != nil {
			fmt.Println(err)
		}

	case ":settings":
		fmt.Print(cfg.Debug())

	case ":grammar":
		fmt.Print(p.Grammar())

	case ":chart":
		dumpChart(p, strings.TrimSpace(strings.TrimPrefix(input, ":chart")), os.Stdout)

	default:
		fmt.Printf("unknown command %s, :help lists them\n", fields[0])
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
