// Command evaluate scores one answer-sheet PDF from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/grading"
	"github.com/mind-engage/mindengage-evaluator/internal/logging"
	"github.com/mind-engage/mindengage-evaluator/internal/rubric"
)

func main() {
	rubricPath := flag.String("rubric", "", "YAML rubric file (default: built-in rubric)")
	policyName := flag.String("policy", "midpoint", "segment policy: midpoint or even")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] answers.pdf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *rubricPath, *policyName, *asJSON, *logLevel, os.Stdout); err != nil {
		log.SetFlags(0)
		log.Fatalf("evaluate: %v", err)
	}
}

func run(pdfPath, rubricPath, policyName string, asJSON bool, logLevel string, out io.Writer) error {
	rb := rubric.Default()
	if rubricPath != "" {
		var err error
		if rb, err = rubric.LoadFile(rubricPath); err != nil {
			return err
		}
	}
	policy, err := grading.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	engine, err := grading.NewEngine(rb, extract.NewPDFExtractor(),
		grading.WithPolicy(policy),
		grading.WithLogger(logging.NewWriter(os.Stderr, logLevel)),
	)
	if err != nil {
		return err
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := engine.EvaluateDocument(context.Background(), f)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return rep.WriteText(out)
}
