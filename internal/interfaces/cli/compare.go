package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/application/dto"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

type compareOptions struct {
	xml    []string
	table  string
	margin string
	format string
	output string
	strict bool
}

func newCompareCommand(s *session) *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "comparar",
		Short: "Ejecuta una conferencia sobre archivos locales",
		Example: `  conferir comparar --xml nota.xml --tabla precios.xlsx
  conferir comparar --xml a.xml --xml b.xml --margen 40 --formato pdf --salida reporte.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, s, opts)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&opts.xml, "xml", nil, "XML de NF-e (repetible)")
	f.StringVar(&opts.table, "tabla", "", "tabla de precios .xlsx o .csv; vacío usa la tabla guardada")
	f.StringVar(&opts.margin, "margen", "", "margen en porcentaje; default MARGIN_PERCENT")
	f.StringVar(&opts.format, "formato", "json", "formato de salida: json, yaml o pdf")
	f.StringVar(&opts.output, "salida", "", "archivo de salida; vacío escribe en stdout")
	f.BoolVar(&opts.strict, "estricto", false, "termina con error si alguna línea queda por debajo del mínimo o el total no cuadra")
	_ = cmd.MarkFlagRequired("xml")
	return cmd
}

func runCompare(cmd *cobra.Command, s *session, opts compareOptions) error {
	format := strings.ToLower(opts.format)
	if format != "json" && format != "yaml" && format != "pdf" {
		return fmt.Errorf("formato %q no soportado (json, yaml, pdf)", opts.format)
	}

	in := comparison.Input{UserID: "cli"}
	for _, path := range opts.xml {
		f, err := readFile(path)
		if err != nil {
			return err
		}
		in.Documents = append(in.Documents, f)
	}
	if opts.table != "" {
		f, err := readFile(opts.table)
		if err != nil {
			return err
		}
		in.Table = &f
	}
	if opts.margin != "" {
		m, err := decimal.NewFromString(strings.Replace(opts.margin, ",", ".", 1))
		if err != nil {
			return fmt.Errorf("--margen %q no es numérico", opts.margin)
		}
		in.MarginPercent = &m
	}

	services, err := s.open(cmd.Context())
	if err != nil {
		return err
	}
	run, err := services.Comparison.Compare(cmd.Context(), in)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "pdf":
		out, err = services.Comparison.RenderPDF(run)
	case "yaml":
		out, err = encodeYAML(dto.FromComparisonRun(run))
	default:
		out, err = json.MarshalIndent(dto.FromComparisonRun(run), "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return err
	}
	if err := s.write(opts.output, out); err != nil {
		return err
	}

	if opts.strict {
		return strictCheck(run.Report)
	}
	return nil
}

func strictCheck(r *entity.Report) error {
	below := r.Diagnostics.ByStatus[entity.StatusBelowMinimum]
	switch {
	case below > 0:
		return fmt.Errorf("%d línea(s) por debajo del precio mínimo", below)
	case !r.Conference.Balanced:
		return fmt.Errorf("el total calculado difiere del vNF en %s", r.Conference.Difference.StringFixed(2))
	}
	return nil
}

func encodeYAML(v interface{}) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func readFile(path string) (comparison.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return comparison.File{}, fmt.Errorf("leer %s: %w", path, err)
	}
	return comparison.File{Name: filepath.Base(path), Data: data}, nil
}

// write escribe en el archivo indicado o en la salida del comando.
func (s *session) write(path string, data []byte) error {
	if path == "" {
		_, err := s.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	s.log.Info().Str("file", path).Int("bytes", len(data)).Msg("reporte escrito")
	return nil
}
