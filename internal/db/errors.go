// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"strings"
)

// ErrStoreUnavailable is returned when the store cannot be reached within
// the bounded connection wait. Reconciliation for the affected entity aborts
// and is retried on the next event.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrStoreBusy is returned when another writer holds the store lock past the
// busy timeout. The transaction is not committed and no partial write occurs.
var ErrStoreBusy = errors.New("store busy")

// MapStoreError inspects low-level driver errors and maps common operational
// failures to package-level sentinel errors. This is a conservative,
// string-based mapping to avoid importing SQL driver packages here.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	le := strings.ToLower(err.Error())
	// SQLite lock contention, MySQL lock wait timeout (1205), Postgres lock_not_available (55P03)
	if strings.Contains(le, "database is locked") || strings.Contains(le, "sqlite_busy") ||
		strings.Contains(le, "lock wait timeout") || strings.Contains(le, "55p03") {
		return errors.Join(ErrStoreBusy, err)
	}
	if strings.Contains(le, "unable to open database") || strings.Contains(le, "connection refused") ||
		strings.Contains(le, "no such host") || strings.Contains(le, "i/o timeout") {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
