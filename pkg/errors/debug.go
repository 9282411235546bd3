package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// DumpPG renders the Postgres-specific detail buried in err, if any. Useful
// when a migration or constraint failure surfaces as an opaque gorm error.
func DumpPG(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var pgconnErr *pgconn.PgError
	if errors.As(err, &pgconnErr) {
		fmt.Fprintf(&sb, "pg code=%s message=%q", pgconnErr.Code, pgconnErr.Message)
		if pgconnErr.Detail != "" {
			fmt.Fprintf(&sb, " detail=%q", pgconnErr.Detail)
		}
		if pgconnErr.ConstraintName != "" {
			fmt.Fprintf(&sb, " constraint=%q", pgconnErr.ConstraintName)
		}
		if pgconnErr.TableName != "" {
			fmt.Fprintf(&sb, " table=%q", pgconnErr.TableName)
		}
		return sb.String()
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		fmt.Fprintf(&sb, "pg code=%s message=%q", pqErr.Code, pqErr.Message)
		if pqErr.Detail != "" {
			fmt.Fprintf(&sb, " detail=%q", pqErr.Detail)
		}
		if pqErr.Constraint != "" {
			fmt.Fprintf(&sb, " constraint=%q", pqErr.Constraint)
		}
		if pqErr.Table != "" {
			fmt.Fprintf(&sb, " table=%q", pqErr.Table)
		}
		return sb.String()
	}

	return ""
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgconnErr *pgconn.PgError
	if errors.As(err, &pgconnErr) {
		return pgconnErr.Code == "23505"
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
