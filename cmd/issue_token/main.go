// issue_token emite un token de acceso para pruebas locales con el secreto,
// emisor y vigencia configurados (JWT_SECRET, JWT_ISSUER, JWT_EXPIRATION_MINUTES).
//
// Uso: go run ./cmd/issue_token <user_id> <company_id> [admin|gerente|comprador]
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/pkg/config"
	"github.com/jhoicas/Compras-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: issue_token <user_id> <company_id> [rol]")
		os.Exit(2)
	}
	role := entity.RoleBuyer
	if len(os.Args) > 3 {
		role = os.Args[3]
	}
	switch role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleBuyer:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL()).
		Sign(jwt.Identity{UserID: os.Args[1], CompanyID: os.Args[2], Role: role})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
