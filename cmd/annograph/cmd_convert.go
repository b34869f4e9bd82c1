package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"annograph/domain/core/graph"
	"annograph/interfaces/convert"
)

var convertFlags struct {
	from string
	out  string
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a passage to its canonical JSON form",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertFlags.from, "from", "", "Input format: site or json (default: by extension)")
	f.StringVarP(&convertFlags.out, "out", "o", "", "Output file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	p, err := readPassage(args[0], convertFlags.from)
	if err != nil {
		return err
	}

	data, err := convert.ToJSON(p)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	if convertFlags.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	return os.WriteFile(convertFlags.out, data, 0o644)
}

// readPassage loads a passage from a site or JSON file, guessing the
// format from the extension when none is given
func readPassage(path, format string) (*graph.Passage, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xml":
			format = "site"
		default:
			format = "json"
		}
	}

	switch format {
	case "site":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		p, err := convert.FromSite(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return p, nil
	case "json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		p, err := convert.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
