package exports

import (
	"context"
	"io"

	"proptrack/infrastructure/sqlite"
)

type writeFunc func(ctx context.Context, db *sqlite.DB, w io.Writer) error
