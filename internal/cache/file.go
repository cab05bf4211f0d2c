package cache

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

const (
	saltFile    = "salt"
	verifyFile  = "verify"
	entriesDir  = "cache"
	verifyToken = "zattend-cache-ok"
)

// ErrWrongPassphrase is returned when the cache was created with a
// different passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// FileCache keeps each entry as its own AES-256-GCM encrypted file.
type FileCache struct {
	fs  zfilesystem.ReadWriteFileFS
	key []byte
}

// OpenFile opens or initializes an encrypted file cache.
// On first run it writes the salt and a verification token; later runs
// check the passphrase against that token.
func OpenFile(fsys zfilesystem.ReadWriteFileFS, passphrase string) (*FileCache, error) {
	salt, err := readOrCreateSalt(fsys)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	key, _, err := zcrypto.DeriveKey([]byte(passphrase), salt)
	if err != nil {
		return nil, fmt.Errorf("open cache: derive key: %w", err)
	}

	if err := verifyOrCreateToken(fsys, key); err != nil {
		zcrypto.Erase(key)
		return nil, fmt.Errorf("open cache: %w", err)
	}

	if err := fsys.MkdirAll(entriesDir, 0o700); err != nil {
		zcrypto.Erase(key)
		return nil, fmt.Errorf("open cache: create entries dir: %w", err)
	}

	return &FileCache{fs: fsys, key: key}, nil
}

// Get decrypts the entry stored under key.
func (c *FileCache) Get(key string) ([]byte, error) {
	ct, err := c.fs.ReadFile(entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: read: %w", key, err)
	}

	data, err := zcrypto.Decrypt(c.key, ct)
	if err != nil {
		return nil, fmt.Errorf("get %s: decrypt: %w", key, err)
	}

	return data, nil
}

// Put encrypts value and writes it under key, replacing any previous entry.
func (c *FileCache) Put(key string, value []byte) error {
	ct, err := zcrypto.Encrypt(c.key, value)
	if err != nil {
		return fmt.Errorf("put %s: encrypt: %w", key, err)
	}

	if err := c.fs.WriteFile(entryPath(key), ct, 0o600); err != nil {
		return fmt.Errorf("put %s: write: %w", key, err)
	}

	return nil
}

// Delete removes the entry under key.
func (c *FileCache) Delete(key string) error {
	if err := c.fs.Remove(entryPath(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Close erases the encryption key from memory.
func (c *FileCache) Close() error {
	zcrypto.Erase(c.key)
	c.key = nil
	return nil
}

func readOrCreateSalt(fsys zfilesystem.ReadWriteFileFS) ([]byte, error) {
	salt, err := fsys.ReadFile(saltFile)
	if err == nil {
		return salt, nil
	}

	salt, err = zcrypto.RandBytes(zcrypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	if err := fsys.WriteFile(saltFile, salt, 0o600); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}

	return salt, nil
}

func verifyOrCreateToken(fsys zfilesystem.ReadWriteFileFS, key []byte) error {
	ct, err := fsys.ReadFile(verifyFile)
	if err != nil {
		ct, err = zcrypto.Encrypt(key, []byte(verifyToken))
		if err != nil {
			return fmt.Errorf("encrypt verify token: %w", err)
		}

		if err := fsys.WriteFile(verifyFile, ct, 0o600); err != nil {
			return fmt.Errorf("write verify token: %w", err)
		}

		return nil
	}

	plain, err := zcrypto.Decrypt(key, ct)
	if err != nil || string(plain) != verifyToken {
		return ErrWrongPassphrase
	}

	return nil
}

func entryPath(key string) string {
	return entriesDir + "/" + key + ".enc"
}
