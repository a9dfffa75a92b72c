// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides read access to convex-seed secrets kept in the OS keychain.
// Operators who do not want a deployment key in their shell environment or in a
// .env file can store it in the platform credential store instead:
//
//	macOS:   security add-generic-password -s convex-seed -a deploy_key -w '<key>'
//	Linux:   secret-tool store --label convex-seed service convex-seed username deploy_key
//
// Lookups are best-effort; a missing store or missing item is reported as an
// error the caller is expected to ignore.
package keychain

import (
	"errors"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "convex-seed"

// Keys used for storing secrets in the OS keychain.
const (
	KeyDeployKey = "deploy_key"
	KeyAuthToken = "auth_token"
)

// ErrNotFound is returned when the requested secret is absent or empty.
var ErrNotFound = errors.New("secret not found in keychain")

// Manager provides thread-safe reads from a keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// Open creates a manager backed by the native OS credential store.
func Open() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManager(ring), nil
}

// NewManager wraps an already opened keyring.
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only.
// The encrypted-file backend is not allowed; it prompts for a passphrase.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KeyCtlBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
		KeyCtlScope:     "user",
	}
	return keyring.Open(cfg)
}

// LoadDeployKey retrieves the Convex deployment key.
func (m *Manager) LoadDeployKey() (string, error) {
	return m.load(KeyDeployKey)
}

// LoadAuthToken retrieves the user identity token.
func (m *Manager) LoadAuthToken() (string, error) {
	return m.load(KeyAuthToken)
}

func (m *Manager) load(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	v := strings.TrimSpace(string(it.Data))
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}
