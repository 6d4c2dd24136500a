// Command stafftoken mints a staff bearer token for door scanners.
//
//	stafftoken --user <staff-user-id> [--ttl 12h] [--secret ...]
//
// The secret defaults to JWT_SECRET from the environment or the env file.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/codegate-events/internal/utils"
)

func main() {
	user := pflag.StringP("user", "u", "", "staff user id (token subject)")
	role := pflag.String("role", utils.RoleStaff, "role claim")
	ttl := pflag.Duration("ttl", 12*time.Hour, "token lifetime")
	secret := pflag.String("secret", "", "signing secret (default $JWT_SECRET)")
	envFile := pflag.String("env-file", ".env", "dotenv file to load")
	pflag.Parse()

	_ = godotenv.Load(*envFile)
	if *secret == "" {
		*secret = os.Getenv("JWT_SECRET")
	}
	if *user == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "stafftoken: --user and a secret (--secret or JWT_SECRET) are required")
		pflag.Usage()
		os.Exit(2)
	}

	tok, err := utils.NewAccessToken(*secret, *user, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stafftoken:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
