package database

import (
	"fmt"
	"net/url"
	"strings"
)

// pragmas lists the PRAGMA calls for the driver's _pragma parameter.
// busy_timeout comes first so the others already wait on locks.
func (opts *SQLiteOptions) pragmas() []string {
	var pragmas []string
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout))
	}
	if opts.Journal != "" {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode(%s)", opts.Journal))
	}
	if opts.ForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	} else {
		pragmas = append(pragmas, "foreign_keys(0)")
	}
	if opts.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous(%s)", opts.Synchronous))
	}
	if opts.CacheSize != 0 {
		pragmas = append(pragmas, fmt.Sprintf("cache_size(%d)", opts.CacheSize))
	}
	if opts.LockingMode != "" {
		pragmas = append(pragmas, fmt.Sprintf("locking_mode(%s)", opts.LockingMode))
	}
	if opts.AutoVacuum != "" {
		pragmas = append(pragmas, fmt.Sprintf("auto_vacuum(%s)", opts.AutoVacuum))
	}
	if opts.SecureDelete != "" {
		pragmas = append(pragmas, fmt.Sprintf("secure_delete(%s)", opts.SecureDelete))
	}
	return pragmas
}

// buildConnectionString generates a modernc.org/sqlite DSN from options
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	for _, p := range opts.pragmas() {
		params.Add("_pragma", p)
	}
	if opts.TxLock != "" {
		params.Set("_txlock", string(opts.TxLock))
	}

	if opts.Cache != "" {
		params.Set("cache", string(opts.Cache))
	}
	if opts.Immutable {
		params.Set("immutable", "1")
	}
	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}

	return connStr
}
