// Package cli implementa el comando conferir: la misma conferencia que expone la API,
// ejecutada sobre archivos locales.
//
//	conferir
//	├── comparar   --xml a.xml --xml b.xml --tabla precios.xlsx --margen 50 --formato json|yaml|pdf
//	├── tabla
//	│   ├── importar precios.xlsx
//	│   └── ver
//	├── token      --usuario u --rol admin
//	└── version
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conferencia-nfe/internal/bootstrap"
	"github.com/jhoicas/conferencia-nfe/pkg/config"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// Version y BuildDate se fijan al compilar con -ldflags "-X ...cli.Version=1.2.0".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// session estado compartido entre subcomandos; se arma en PersistentPreRunE.
type session struct {
	out      io.Writer
	errOut   io.Writer
	logLevel string
	cfg      *config.Config
	log      *logger.Logger
	services *bootstrap.Services
}

// loadConfig carga configuración y logger. Los logs van a errOut para no mezclarse con el reporte.
func (s *session) loadConfig() error {
	if s.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.App.LogLevel
	if s.logLevel != "" {
		level = s.logLevel
	}
	s.cfg = cfg
	s.log = logger.New(logger.Config{Env: "development", Level: level, Output: s.errOut})
	return nil
}

// open construye los servicios bajo demanda.
func (s *session) open(ctx context.Context) (*bootstrap.Services, error) {
	if s.services != nil {
		return s.services, nil
	}
	if err := s.loadConfig(); err != nil {
		return nil, err
	}
	services, err := bootstrap.New(ctx, s.cfg, s.log)
	if err != nil {
		return nil, err
	}
	s.services = services
	return services, nil
}

func (s *session) close() {
	if s.services != nil {
		s.services.Close()
	}
}

// NewRootCommand arma el árbol de comandos escribiendo en out y errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	s := &session{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "conferir",
		Short:         "Confiere los ítems de NF-e contra la tabla de precios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "nivel de log (trace, debug, info, warn, error); default LOG_LEVEL")

	root.AddCommand(
		newCompareCommand(s),
		newTableCommand(s),
		newTokenCommand(s),
		newVersionCommand(s),
	)
	return root
}

// Execute punto de entrada de cmd/conferir.
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
