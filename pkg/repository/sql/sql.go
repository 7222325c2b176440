package sql

import (
	"context"
	gosql "database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
	"github.com/webhubworks/goodsoup/pkg/utils/safe"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Ledger is a LedgerRepository backed by SQLite or PostgreSQL.
type Ledger struct {
	*session
	db *gosql.DB
}

var _ interfaces.LedgerRepository = &Ledger{}

// Open connects to the ledger database. A DSN starting with postgres:// or postgresql:// selects
// PostgreSQL, anything else is taken as a SQLite file path whose parent directory is created.
func Open(ctx context.Context, dsn types.DatabaseDSN) (*Ledger, error) {
	raw := dsn.Raw()
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return New(ctx, DialectPostgres, raw)
	}

	path, dsnWithPragmas := sqliteDSN(raw)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("dir", dir))
		}
	}
	return New(ctx, DialectSQLite, dsnWithPragmas)
}

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// sqliteDSN returns the file path of a SQLite DSN (plain path or file: URI, with or without a
// query) and the DSN with the connection pragmas appended to its query.
func sqliteDSN(raw string) (path, dsn string) {
	path = strings.TrimPrefix(raw, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return path, raw + sep + sqlitePragmas
}

// New opens a database handle with the driver of the dialect and verifies the connection.
func New(ctx context.Context, dialect Dialect, dsn string) (*Ledger, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "postgres"
	default:
		return nil, goerr.Wrap(types.ErrInvalidOption, "unsupported database dialect", goerr.V("dialect", dialect))
	}

	db, err := gosql.Open(driver, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("dialect", dialect))
	}
	if dialect == DialectSQLite {
		// SQLite has a single writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		safe.Close(db)
		return nil, goerr.Wrap(err, "failed to connect to database", goerr.V("dialect", dialect))
	}

	return &Ledger{
		session: &session{q: db, dialect: dialect},
		db:      db,
	}, nil
}

func (x *Ledger) Dialect() Dialect { return x.dialect }

func (x *Ledger) Close() error {
	if err := x.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close database")
	}
	return nil
}

func (x *Ledger) Migrate(ctx context.Context) error {
	for _, stmt := range schema(x.dialect) {
		if _, err := x.db.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to migrate ledger schema", goerr.V("statement", stmt))
		}
	}
	logging.From(ctx).Debug("ledger schema ready", "dialect", x.dialect)
	return nil
}

func (x *Ledger) RunInTx(ctx context.Context, fn func(ctx context.Context, session interfaces.LedgerSession) error) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(tx)

	if err := fn(ctx, &session{q: tx, dialect: x.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (gosql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*gosql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *gosql.Row
}

// rebind converts '?' placeholders into the numbered form used by PostgreSQL.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
