// Command omr-grade grades one scanned answer sheet against an answer
// key and prints the score summary. Optional flags persist the report,
// the structured JSON results, and the intermediate ink mask.
//
// Usage: omr-grade -image sheet.png [options]
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"omr-grader/internal/omr"
	"omr-grader/internal/report"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	flagImage     = flag.String("image", "", "Path to the scanned answer sheet")
	flagKey       = flag.String("key", "answer_key.json", "Path to the answer key JSON file")
	flagColumns   = flag.Int("cols", 5, "Question columns on the sheet")
	flagRows      = flag.Int("rows", 20, "Question rows per column")
	flagOptions   = flag.Int("options", 4, "Options per question")
	flagThreshold = flag.Float64("threshold", omr.DefaultMarkThreshold, "Minimum ink score that counts as a mark")
	flagReport    = flag.String("report", "", "Write the plain-text report to this path")
	flagJSON      = flag.String("json", "", "Write the structured results to this JSON path")
	flagMask      = flag.String("mask", "", "Write the binarized ink mask to this PNG path")
	flagVersion   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("omr-grade %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	if *flagImage == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -image sheet.png [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "omr-grade: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	key, err := omr.LoadAnswerKey(*flagKey)
	if err != nil {
		return err
	}

	spec := omr.GridSpec{
		QuestionColumns:    *flagColumns,
		QuestionRows:       *flagRows,
		OptionsPerQuestion: *flagOptions,
	}
	processor, err := omr.NewProcessor(spec, key, *flagThreshold)
	if err != nil {
		return err
	}

	result, err := processor.ProcessFile(*flagImage)
	if err != nil {
		return err
	}

	fmt.Print(report.Text(result.Evaluation))

	if *flagReport != "" {
		if err := report.SaveText(*flagReport, result.Evaluation); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", *flagReport)
	}
	if *flagJSON != "" {
		if err := report.Save(*flagJSON, result); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", *flagJSON)
	}
	if *flagMask != "" {
		if err := writeMask(*flagMask, result); err != nil {
			return err
		}
		fmt.Printf("Ink mask saved to %s\n", *flagMask)
	}
	return nil
}

func writeMask(path string, result *omr.SheetResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, result.Mask); err != nil {
		return fmt.Errorf("failed to encode mask: %w", err)
	}
	return nil
}
