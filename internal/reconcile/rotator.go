// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/tasdomas/juju-charm-grafana/internal/model"
)

const (
	adminLogin = "admin"
	adminName  = "BootStack Team"
	adminTheme = "light"

	// DefaultNagiosContext is used in the derived admin email when the
	// deployment has no nagios_context configured.
	DefaultNagiosContext = "UNKNOWN"

	kdfIterations = 10000
	kdfKeyLen     = 50
)

const rotateStmt = `UPDATE user SET email = ?, name = ?, password = ?, theme = ? WHERE id = ?`

// ErrCredentialDerivation is reported when the KDF yields no usable hash.
// Rotation is skipped in that case; a corrupt hash must never be written.
var ErrCredentialDerivation = errors.New("credential derivation failed")

// DeriveHash produces the password hash Grafana expects: PBKDF2-HMAC-SHA256
// over the plaintext with the account's stored salt, hex-encoded to a fixed
// length. The salt is input only - it is never regenerated here.
func DeriveHash(password, salt string) (string, error) {
	key := pbkdf2.Key([]byte(password), []byte(salt), kdfIterations, kdfKeyLen, sha256.New)
	hash := hex.EncodeToString(key)
	if hash == "" {
		return "", ErrCredentialDerivation
	}
	return hash, nil
}

// PlanAdminRotation locates the admin account among the given rows and
// computes the statement that rotates its credential. The stored salt is
// reused; only email, name, password and theme are touched.
//
// A nil mutation with nil error means no admin row exists - a silent skip,
// not a failure.
func PlanAdminRotation(accounts []model.AccountRow, password, nagiosContext string) (*model.Mutation, error) {
	if nagiosContext == "" {
		nagiosContext = DefaultNagiosContext
	}
	for _, a := range accounts {
		if a.Login != adminLogin {
			continue
		}
		hash, err := DeriveHash(password, a.Salt)
		if err != nil {
			return nil, err
		}
		email := fmt.Sprintf("root+%s@canonical.com", nagiosContext)
		return &model.Mutation{
			SQL:  rotateStmt,
			Args: []any{email, adminName, hash, adminTheme, a.ID},
		}, nil
	}
	return nil, nil
}
