// Command admintoken issues a bearer token for the retention admin API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
)

func main() {
	subject := flag.String("subject", "", "operator identifier placed in the sub claim")
	role := flag.String("role", string(domain.RoleAdmin), "ADMIN or AUDITOR")
	ttl := flag.Int("ttl", 0, "token lifetime in minutes (defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ttl <= 0 {
		*ttl = cfg.Auth.AccessTokenTTLMinutes
	}

	tm := auth.NewTokenManager(cfg.Auth.JWTSecret, *ttl)
	meta, token, err := tm.GenerateToken(*subject, domain.Role(strings.ToUpper(*role)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "role=%s expires=%s\n", meta.Role, meta.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Println(token)
}
