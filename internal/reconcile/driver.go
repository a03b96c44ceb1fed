// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tasdomas/juju-charm-grafana/internal/bootstrap"
	"github.com/tasdomas/juju-charm-grafana/internal/db"
	"github.com/tasdomas/juju-charm-grafana/internal/i18n"
	"github.com/tasdomas/juju-charm-grafana/internal/logging"
	"github.com/tasdomas/juju-charm-grafana/internal/model"
	"github.com/tasdomas/juju-charm-grafana/internal/pwgen"
	"github.com/tasdomas/juju-charm-grafana/internal/state"
)

// StoreOpener opens a connection to the Grafana store for one reconciliation
// pass. The driver closes it again on every exit path.
type StoreOpener func() (db.Store, error)

// Options carries deployment configuration into the driver.
type Options struct {
	// AdminPassword, when set, overrides the generated admin password.
	AdminPassword string
	// NagiosContext feeds the derived admin email address.
	NagiosContext string
	// StartupDelay is how long the first rotation waits for Grafana's own
	// database bootstrap. Zero disables the wait; a negative value means
	// unset and falls back to the 10s default.
	StartupDelay time.Duration
}

const defaultStartupDelay = 10 * time.Second

// Driver orchestrates reconciliation passes: snapshot dedupe, per-datasource
// convergence with error isolation, and the at-most-once admin credential
// bootstrap. Passes run strictly sequentially; the driver is not called
// concurrently.
type Driver struct {
	open StoreOpener
	unit *state.Unit
	opts Options
}

// NewDriver returns a driver using the given store opener and unit state.
func NewDriver(open StoreOpener, unit *state.Unit, opts Options) *Driver {
	if opts.StartupDelay < 0 {
		opts.StartupDelay = defaultStartupDelay
	}
	return &Driver{open: open, unit: unit, opts: opts}
}

// Reconcile applies one desired-state snapshot. Identical consecutive
// snapshots short-circuit before any store work. Failures on one datasource
// are logged and collected but never block the remaining datasources; the
// snapshot digest is cleared before the store is touched and only recorded
// once every datasource converged, so a partly-failed pass is retried in
// full on the next event, even one reverting to an earlier snapshot.
func (d *Driver) Reconcile(ctx context.Context, snap model.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid desired state: %w", err)
	}

	digest, err := snapshotDigest(snap)
	if err != nil {
		return err
	}
	if prev, ok := d.unit.Get(state.KeySourcesDigest); ok && prev == digest {
		logging.Debugf("%s", i18n.T("reconcile.snapshot_unchanged"))
		return nil
	}
	// The pass is going to mutate the store. Drop the recorded digest now
	// so a partial failure cannot leave a stale success marker: reverting
	// to the previously applied snapshot must reconcile again, not skip.
	if err := d.unit.Delete(state.KeySourcesDigest); err != nil {
		return err
	}

	st, err := d.open()
	if err != nil {
		return fmt.Errorf("could not open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	passID := uuid.NewString()[:8]
	var errs []error
	applied := 0
	for _, ds := range snap.Datasources {
		logging.Debugf("%s", i18n.T("reconcile.found_datasource", ds.DisplayName()))
		if err := d.reconcileOne(ctx, st, ds); err != nil {
			logging.Errorf("%s", i18n.T("reconcile.datasource_failed", ds.DisplayName(), err))
			errs = append(errs, fmt.Errorf("%s: %w", ds.DisplayName(), err))
			continue
		}
		applied++
	}
	logging.Infof("%s", i18n.T("reconcile.pass_complete", passID, applied, len(errs)))

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return d.unit.Set(state.KeySourcesDigest, digest)
}

// reconcileOne converges a single datasource: read current rows, resolve
// identity, plan the mutation, apply it in one transaction. Rows are re-read
// per datasource so duplicates within one snapshot resolve against each
// other's writes.
func (d *Driver) reconcileOne(ctx context.Context, st db.Store, ds model.DesiredDatasource) error {
	rows, err := st.ListDatasources(ctx)
	if err != nil {
		return err
	}
	match := Resolve(rows, ds)
	if match != nil {
		logging.Infof("%s", i18n.T("reconcile.updating_datasource", ds.DisplayName()))
	} else {
		logging.Infof("%s", i18n.T("reconcile.adding_datasource", ds.DisplayName()))
	}
	mut := PlanDatasource(ds, match, false, bootstrap.Now())
	return st.Apply(ctx, mut)
}

// RotateAdmin rotates the admin account credential on demand. The plaintext
// comes from configuration when set, otherwise from the generated-once
// password in unit state. A store missing the admin row is a silent skip.
func (d *Driver) RotateAdmin(ctx context.Context) error {
	password, err := d.adminPassword()
	if err != nil {
		return err
	}

	st, err := d.open()
	if err != nil {
		return fmt.Errorf("could not open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		return err
	}
	mut, err := PlanAdminRotation(accounts, password, d.opts.NagiosContext)
	if err != nil {
		logging.Errorf("%s", i18n.T("rotate.derivation_failed"))
		return err
	}
	if mut == nil {
		logging.Debugf("%s", i18n.T("rotate.no_admin_row"))
		return nil
	}
	if err := st.Apply(ctx, *mut); err != nil {
		return err
	}
	logging.Infof("[*] %s", i18n.T("rotate.updated"))
	return nil
}

// EnsureAdminBootstrap performs the at-most-once startup rotation. The first
// invocation waits StartupDelay for Grafana's own migration to finish; the
// wait is cancelled only by process shutdown. Once a rotation succeeds, a
// marker in unit state suppresses further bootstrap attempts, though
// RotateAdmin remains available on demand.
func (d *Driver) EnsureAdminBootstrap(ctx context.Context) error {
	if _, done := d.unit.Get(state.KeyBootstrapDone); done {
		return nil
	}
	if d.opts.StartupDelay > 0 {
		logging.Infof("%s", i18n.T("rotate.waiting", d.opts.StartupDelay))
		if err := bootstrap.Sleep(ctx, d.opts.StartupDelay); err != nil {
			return err
		}
	}
	if err := d.RotateAdmin(ctx); err != nil {
		return err
	}
	return d.unit.Set(state.KeyBootstrapDone, "true")
}

// adminPassword resolves the plaintext admin password: configured value
// first, then the previously generated one, else a fresh password persisted
// so it is generated at most once per deployment lifetime.
func (d *Driver) adminPassword() (string, error) {
	if d.opts.AdminPassword != "" {
		return d.opts.AdminPassword, nil
	}
	if pw, ok := d.unit.Get(state.KeyAdminPassword); ok && pw != "" {
		return pw, nil
	}
	pw, err := pwgen.Generate(16)
	if err != nil {
		return "", fmt.Errorf("could not generate admin password: %w", err)
	}
	if err := d.unit.Set(state.KeyAdminPassword, pw); err != nil {
		return "", err
	}
	return pw, nil
}

// snapshotDigest canonicalizes the snapshot and hashes it. Structural
// equality over the full set of desired datasources decides whether a pass
// can be skipped.
func snapshotDigest(snap model.Snapshot) (string, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("could not canonicalize snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
