// Command datainfo inspects data descriptors from the command line.
//
// Descriptors are read from YAML or JSON files. The check subcommand
// builds a descriptor and prints its canonical form, compat checks
// whether one descriptor can stand in for another, and value validates a
// value literal against a descriptor.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	datainfo "github.com/secop-community/datainfo-go"
	"github.com/secop-community/datainfo-go/canonicaljson"
)

var log zerolog.Logger

func main() {
	var debug bool

	root := &cobra.Command{
		Use:           "datainfo",
		Short:         "inspect data descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(checkCmd(), compatCmd(), valueCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "build a descriptor and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := loadType(args[0])
			if err != nil {
				return err
			}
			out, err := canonicaljson.String(dt.ExportDatatype())
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func compatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compat SELF OTHER",
		Short: "check whether SELF can stand in for OTHER",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			self, err := loadType(args[0])
			if err != nil {
				return err
			}
			other, err := loadType(args[1])
			if err != nil {
				return err
			}
			if err := self.Compatible(other); err != nil {
				return err
			}
			log.Info().Str("self", args[0]).Str("other", args[1]).Msg("compatible")
			return nil
		},
	}
}

func valueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value FILE LITERAL",
		Short: "validate a JSON value literal against a descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := loadType(args[0])
			if err != nil {
				return err
			}
			v, err := dt.FromString(args[1])
			if err != nil {
				return err
			}
			v, err = dt.Validate(v)
			if err != nil {
				return err
			}
			wire, err := dt.ExportValue(v)
			if err != nil {
				return err
			}
			out, err := json.Marshal(wire)
			if err != nil {
				return err
			}
			log.Debug().Str("formatted", dt.FormatValue(v)).Msg("validated")
			fmt.Println(string(out))
			return nil
		},
		Args: cobra.ExactArgs(2),
	}
}

// loadType reads a YAML or JSON descriptor file and builds the type.
// YAML is a superset of JSON, so one decoder covers both.
func loadType(path string) (datainfo.DataType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var desc map[string]any
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dt, err := datainfo.Get(normalize(desc).(map[string]any))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if dt == nil {
		return nil, fmt.Errorf("%s: empty descriptor", path)
	}
	log.Debug().Str("file", path).Str("type", kindOf(desc)).Msg("descriptor loaded")
	return dt, nil
}

// normalize rewrites the map[any]any mappings YAML produces for non-string
// keys into the map[string]any shape descriptors use.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func kindOf(desc map[string]any) string {
	if s, ok := desc["type"].(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprint(desc["type"]))
}
