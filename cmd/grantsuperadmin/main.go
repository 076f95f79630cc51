// Command grantsuperadmin sets the super-admin claim on one account.
//
//	grantsuperadmin -uid <uid> [-mongo-uri mongodb://...] [-db daycare]
//
// The claim is read from identity tokens, so the user has to sign in again
// before it takes effect.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	accountstore "github.com/dalemusser/daycarehub/internal/app/store/accounts"
	"github.com/dalemusser/daycarehub/internal/app/store/audit"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain owns the logger so it is synced before the process exits.
func realMain(args []string) int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	return execute(args, os.Stderr, logger)
}

// execute parses args and grants the claim, returning the exit code.
func execute(args []string, stderr io.Writer, logger *zap.Logger) int {
	fs := flag.NewFlagSet("grantsuperadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	uid := fs.String("uid", "", "account uid to promote (required)")
	mongoURI := fs.String("mongo-uri", envOr("DAYCARE_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	dbName := fs.String("db", envOr("DAYCARE_MONGO_DATABASE", "daycare"), "MongoDB database name")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *uid == "" {
		fmt.Fprintln(stderr, "usage: grantsuperadmin -uid <uid>")
		fs.PrintDefaults()
		return 2
	}

	if err := run(*uid, *mongoURI, *dbName, logger); err != nil {
		logger.Error("grant super admin failed", zap.String("uid", *uid), zap.Error(err))
		return 1
	}
	return 0
}

func run(uid, uri, dbName string, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	accounts := identity.New(accountstore.New(db))
	if err := accounts.SetSuperAdmin(ctx, uid, true); err != nil {
		return err
	}

	acct, err := accounts.Get(ctx, uid)
	if err != nil {
		return err
	}
	logger.Info("granted super-admin claim", zap.String("uid", uid), zap.String("email", acct.Email))
	auditlog.New(audit.New(db), logger, auditlog.Config{}).SuperAdminGranted(ctx, uid, "grantsuperadmin")

	claims, _ := json.Marshal(map[string]any{"super_admin": acct.SuperAdmin})
	fmt.Printf("Super admin granted to %s\n", acct.Email)
	fmt.Printf("Custom claims: %s\n", claims)
	fmt.Println("The user must sign in again for the claim to take effect.")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
