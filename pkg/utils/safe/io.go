package safe

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// Close closes the resource and logs the error if any. Nil closers and io.EOF are ignored.
func Close(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && !errors.Is(err, io.EOF) {
		logging.Default().Warn("Fail to close resource", slog.Any("error", err))
	}
}

// Rollback rolls back the transaction and logs the error if any. A transaction that was already
// committed or rolled back is ignored, so Rollback can be deferred right after BeginTx.
func Rollback(tx *sql.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Default().Warn("Fail to rollback transaction", slog.Any("error", err))
	}
}
