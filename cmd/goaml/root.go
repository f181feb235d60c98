package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	goaml "github.com/reoring/goaml"
	"github.com/reoring/goaml/i18n"
	"github.com/reoring/goaml/objview"
)

// app carries state shared by all subcommands.
type app struct {
	cfg     config
	cfgFile string
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig()}
	cmd := &cobra.Command{
		Use:   "goaml",
		Short: "Convert device readings to and from AutomationML",
		Long: `goaml converts JSON or YAML device records into AutomationML (CAEX 2.15)
documents, or into their binary form, as described by an AutomationML data
model, and converts them back.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	fs.StringVarP(&a.cfg.Schema, "schema", "s", "", "AutomationML data model (.aml)")
	fs.StringVar(&a.cfg.Language, "language", a.cfg.Language, "language of error messages: en or ja")
	fs.IntVar(&a.cfg.MaxDepth, "max-depth", 0, "attribute nesting ceiling (0 keeps the default)")
	registerLoggingFlags(fs, &a.cfg)

	cmd.AddCommand(
		newIDCmd(a),
		newConfigCmd(a),
		newTemplateCmd(a),
		newEncodeCmd(a),
		newDecodeCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		file, err := loadConfigFile(a.cfgFile)
		if err != nil {
			return err
		}
		a.cfg.mergeFile(file, cmd.Flags())
	}
	log, err := newLogger(a.cfg.LogLevel, a.cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log
	if a.cfg.Language != "" {
		i18n.SetLanguage(a.cfg.Language)
	}
	return nil
}

func (a *app) representation() (*goaml.Representation, error) {
	if a.cfg.Schema == "" {
		return nil, errors.New("no data model given; use --schema or the schema key of --config")
	}
	return goaml.NewRepresentation(a.cfg.Schema, goaml.WithLogger(a.log), goaml.WithMaxDepth(a.cfg.MaxDepth))
}

func newIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print the identifier of the data model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.representation()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rep.ID())
			return err
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration record described by the data model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.representation()
			if err != nil {
				return err
			}
			obj, err := rep.ConfigInfo()
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), obj, output)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newTemplateCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "template NAME",
		Short: "Print the attribute slots of one SystemUnitClass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.representation()
			if err != nil {
				return err
			}
			tmpl, ok := rep.StructureTemplate(args[0])
			if !ok {
				return fmt.Errorf("no SystemUnitClass named %q", args[0])
			}
			var b []byte
			switch output {
			case formatJSON:
				b, err = j.MarshalIndent(tmpl, "", "  ")
				b = append(b, '\n')
			default:
				b, err = yaml.Marshal(tmpl)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	var (
		input  string
		binary bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "encode [FILE]",
		Short: "Convert a JSON or YAML record into AutomationML or its binary form",
		Long: `encode reads one record from FILE, or from standard input when FILE is
omitted or "-", and writes the AutomationML document. With --binary the
binary form is written instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.representation()
			if err != nil {
				return err
			}
			path := argPath(args)
			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			obj, err := parseRecord(raw, recordFormat(input, path))
			if err != nil {
				return err
			}
			var b []byte
			if binary {
				b, err = rep.DataToByte(obj)
			} else {
				var s string
				s, err = rep.DataToAML(obj)
				b = []byte(s)
			}
			if err != nil {
				return err
			}
			a.log.Info("encoded record", "id", obj.ID(), "binary", binary, "bytes", len(b))
			return writeOutput(cmd, out, b)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "record format: json or yaml (default: by file extension, else json)")
	cmd.Flags().BoolVar(&binary, "binary", false, "write the binary form instead of AutomationML")
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of standard output")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		output string
		binary bool
	)
	cmd := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Convert an AutomationML document or its binary form into a record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.representation()
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, argPath(args))
			if err != nil {
				return err
			}
			var obj *goaml.Object
			if binary {
				obj, err = rep.ByteToData(raw)
			} else {
				obj, err = rep.AMLToData(string(raw))
			}
			if err != nil {
				return err
			}
			a.log.Info("decoded record", "id", obj.ID(), "groups", len(obj.DataNames()))
			return writeRecord(cmd.OutOrStdout(), obj, output)
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&binary, "binary", false, "read the binary form instead of AutomationML")
	return cmd
}

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", formatJSON, "output format: json or yaml")
}

func argPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, b []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// recordFormat picks the record syntax from the flag, then the extension.
func recordFormat(flag, path string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return formatJSON
	}
}

func parseRecord(b []byte, format string) (*goaml.Object, error) {
	switch format {
	case formatJSON:
		return objview.UnmarshalJSON(b)
	case "yaml":
		return objview.UnmarshalYAML(b)
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
}

func writeRecord(w io.Writer, obj *goaml.Object, format string) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case formatJSON:
		b, err = objview.MarshalJSON(obj)
		b = append(b, '\n')
	case "yaml":
		b, err = objview.MarshalYAML(obj)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
