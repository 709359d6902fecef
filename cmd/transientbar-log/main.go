// Command transientbar-log is a tool for viewing and analyzing transient
// bar event log files.
//
// Log files are created by attaching a log.FileLogger to a scheduler (the
// transientbar-demo binary does this with the -event-log flag).
//
// Usage:
//
//	transientbar-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	transientbar-log view bars.blog
//
//	# View only timer events
//	transientbar-log view -category timer bars.blog
//
//	# View one bar's events
//	transientbar-log view -bar 6f0c43f2-... bars.blog
//
//	# Export to JSONL
//	transientbar-log export bars.blog > bars.jsonl
//
//	# Show statistics
//	transientbar-log stats bars.blog
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/transientbar/transientbar-go/pkg/log"
)

const usage = `transientbar-log - Transient Bar Event Log Analyzer

Usage:
  transientbar-log <command> [flags] <file.blog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL
  stats    Show statistics about the log file

Use "transientbar-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "view":
		err = runView(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "transientbar-log: %v\n", err)
		os.Exit(1)
	}
}

// parseCategory maps a category name to a filter value.
func parseCategory(name string) (*log.Category, error) {
	if name == "" {
		return nil, nil
	}
	for c := log.CategoryState; c <= log.CategoryError; c++ {
		if strings.EqualFold(c.String(), name) {
			cat := c
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q", name)
}

// openReader builds a filtered reader from common flags.
func openReader(fs *flag.FlagSet, args []string) (*log.Reader, error) {
	barID := fs.String("bar", "", "filter by bar id")
	schedulerID := fs.String("scheduler", "", "filter by scheduler id")
	category := fs.String("category", "", "filter by category (state, show, dismiss, timer, promotion, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one log file, got %d", fs.NArg())
	}

	cat, err := parseCategory(*category)
	if err != nil {
		return nil, err
	}

	return log.NewFilteredReader(fs.Arg(0), log.Filter{
		SchedulerID: *schedulerID,
		BarID:       *barID,
		Category:    cat,
	})
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	r, err := openReader(fs, args)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(formatEvent(event))
	}
}

// formatEvent renders one event as a single text line.
func formatEvent(e log.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-9s", e.Timestamp.Format(time.RFC3339Nano), e.Category)
	if e.BarID != "" {
		fmt.Fprintf(&b, " bar=%s", shortID(e.BarID))
	}

	switch {
	case e.State != nil:
		fmt.Fprintf(&b, " %s→%s", e.State.OldState, e.State.NewState)
		if e.State.Reason != "" {
			fmt.Fprintf(&b, " reason=%s", e.State.Reason)
		}
	case e.Show != nil:
		fmt.Fprintf(&b, " outcome=%s duration=%v", e.Show.Outcome, e.Show.Duration)
	case e.Dismiss != nil:
		fmt.Fprintf(&b, " reason=%s target=%s", e.Dismiss.Reason, e.Dismiss.Target)
	case e.Timer != nil:
		fmt.Fprintf(&b, " action=%s", e.Timer.Action)
		if e.Timer.Duration != 0 {
			fmt.Fprintf(&b, " duration=%v", e.Timer.Duration)
		}
		if e.Timer.Remaining != 0 {
			fmt.Fprintf(&b, " remaining=%v", e.Timer.Remaining)
		}
	case e.Promotion != nil:
		if e.Promotion.PromotedBarID == "" {
			b.WriteString(" idle")
		} else {
			fmt.Fprintf(&b, " promoted=%s", shortID(e.Promotion.PromotedBarID))
		}
	case e.Error != nil:
		fmt.Fprintf(&b, " op=%s msg=%q", e.Error.Op, e.Error.Message)
	}
	return b.String()
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	r, err := openReader(fs, args)
	if err != nil {
		return err
	}
	defer r.Close()

	enc := json.NewEncoder(os.Stdout)
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(event); err != nil {
			return err
		}
	}
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	r, err := openReader(fs, args)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		total       int
		first, last time.Time
		byCategory  = make(map[string]int)
		bars        = make(map[string]struct{})
	)

	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		total++
		byCategory[event.Category.String()]++
		if event.BarID != "" {
			bars[event.BarID] = struct{}{}
		}
		if first.IsZero() || event.Timestamp.Before(first) {
			first = event.Timestamp
		}
		if event.Timestamp.After(last) {
			last = event.Timestamp
		}
	}

	fmt.Printf("events: %d\n", total)
	fmt.Printf("bars:   %d\n", len(bars))
	if total > 0 {
		fmt.Printf("span:   %s .. %s (%v)\n",
			first.Format(time.RFC3339), last.Format(time.RFC3339), last.Sub(first).Round(time.Millisecond))
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %-9s %d\n", c, byCategory[c])
	}
	return nil
}
