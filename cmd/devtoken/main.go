// Command devtoken signs an access token for local development against a
// server configured with the same JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/talentscout/internal/config"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/session"
)

func main() {
	cfg := config.Load()

	userID := flag.String("user", "", "user id (uuid); a new one is generated when empty")
	userType := flag.String("type", string(models.UserTypeYouth), "user type: youth or expert")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if len(cfg.JWTSecret) < 32 {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set (at least 32 characters)")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}
	t := models.UserType(*userType)
	if !t.Valid() {
		fmt.Fprintf(os.Stderr, "unknown user type %q\n", *userType)
		os.Exit(1)
	}

	token, err := session.NewAuthenticator(cfg.JWTSecret, cfg.JWTAudience).
		Issue(session.Identity{UserID: *userID, UserType: t}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "user %s (%s)\n", *userID, t)
	fmt.Println(token)
}
