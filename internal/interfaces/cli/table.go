package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/conferencia-nfe/internal/application/dto"
)

func newTableCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabla",
		Short: "Administra la tabla de precios guardada (requiere base de datos)",
	}

	importCmd := &cobra.Command{
		Use:   "importar <archivo>",
		Short: "Reemplaza la tabla guardada por la planilla indicada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			services, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := services.PriceTable.Import(cmd.Context(), "cli", f.Name, f.Data)
			if err != nil {
				return err
			}
			return s.printYAML(dto.FromPriceTableSummary(summary))
		},
	}

	showCmd := &cobra.Command{
		Use:   "ver",
		Short: "Muestra los metadatos de la tabla guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := services.PriceTable.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return s.printYAML(dto.FromPriceTableSummary(summary))
		},
	}

	cmd.AddCommand(importCmd, showCmd)
	return cmd
}

func (s *session) printYAML(v interface{}) error {
	out, err := encodeYAML(v)
	if err != nil {
		return err
	}
	return s.write("", out)
}
