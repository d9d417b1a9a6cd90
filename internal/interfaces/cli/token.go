package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/conferencia-nfe/pkg/jwt"
)

func newTokenCommand(s *session) *cobra.Command {
	var userID, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT para la API (usa JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.loadConfig(); err != nil {
				return err
			}
			if !s.cfg.JWT.Enabled() {
				return fmt.Errorf("JWT_SECRET no configurado: la API corre sin autenticación")
			}
			tok, err := jwt.Generate(s.cfg.JWT.Secret, userID, role, s.cfg.JWT.Issuer, s.cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(s.out, tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "usuario", "", "identificador del usuario")
	cmd.Flags().StringVar(&role, "rol", "operador", "rol: admin u operador")
	_ = cmd.MarkFlagRequired("usuario")
	return cmd
}
