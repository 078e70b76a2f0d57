package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/talentscout/internal/repository/contracttest"
	"github.com/vytor/talentscout/internal/repository/sqlite"
	"github.com/vytor/talentscout/internal/testutil"
)

func TestContract_SQLiteGateway(t *testing.T) {
	contracttest.RunGateway(t, func(t *testing.T) (contracttest.Fixture, contracttest.CleanupFunc) {
		t.Helper()
		db := testutil.NewTestDB(t)
		seed := contracttest.NewSQLSeeder(func(ctx context.Context, query string, args ...any) error {
			_, err := db.ExecContext(ctx, query, args...)
			return err
		}, squirrel.Question, func(list []string) (any, error) {
			b, err := json.Marshal(list)
			return string(b), err
		})
		return contracttest.Fixture{Gateway: sqlite.NewGateway(db), Seed: seed}, func() { testutil.MustClose(t, db) }
	})
}
