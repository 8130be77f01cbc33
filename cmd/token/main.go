// Command token emite un Bearer token para un actor. Útil en desarrollo: la API no
// gestiona usuarios, solo identifica al actor que firma los movimientos.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func main() {
	actor := flag.String("actor", "", "identificador del actor (user id)")
	minutes := flag.Int("exp", 0, "minutos de validez; por defecto JWT_EXPIRATION_MINUTES")
	flag.Parse()

	if *actor == "" {
		fmt.Fprintln(os.Stderr, "uso: token -actor <id> [-exp minutos]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *actor, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
