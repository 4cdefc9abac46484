// Package vault keeps API credentials confidential at rest and persists the
// rest of the application state. Only the two provider API keys are ever
// encrypted; everything else in the settings object is stored as-is.
//
// Failure policy: vault-level problems never escape this package as errors a
// caller must branch on. A key that cannot be decrypted degrades to "not
// configured" for that provider, and key material that cannot be imported is
// silently replaced with a fresh key, orphaning old ciphertext. That data
// loss is logged, not fatal.
package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apexai/draftkit/internal/cryptox"
	"github.com/apexai/draftkit/internal/logging"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/vault/storage"
)

// Storage keys. The settings and key-material names are deliberately
// unremarkable; the legacy key is read once and removed by migration.
const (
	keyMaterialStorageKey = "_apexSecKeyV1"
	settingsStorageKey    = "_apexCfgDatV1"
	legacySettingsKey     = "appSettingsV2"
)

// Vault encrypts provider API keys and persists settings in a local
// key-value store.
type Vault struct {
	store      storage.KV
	log        logging.Logger
	passphrase []byte
}

// Option customizes a Vault.
type Option func(*Vault)

// WithPassphrase makes the vault seal its key material under an
// Argon2id-derived wrapping key before storing it. A wrong passphrase on a
// later run behaves exactly like unreadable key material.
func WithPassphrase(passphrase []byte) Option {
	return func(v *Vault) {
		if len(passphrase) > 0 {
			v.passphrase = passphrase
		}
	}
}

func New(store storage.KV, log logging.Logger, opts ...Option) *Vault {
	v := &Vault{store: store, log: log.With("component", "vault")}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// secData is the only encrypted region of the persisted settings record.
type secData struct {
	OpenAI *cryptox.Payload `json:"o"`
	Google *cryptox.Payload `json:"g"`
}

// storedSettings is the current on-disk settings schema: the plain settings
// fields plus encrypted API key payloads in place of plaintext keys.
type storedSettings struct {
	models.Settings
	SecData secData `json:"_secDat"`
}

// legacySettings is the pre-encryption schema. Its API keys were stored in
// plaintext; LoadSettings migrates them forward on first sight.
type legacySettings struct {
	models.Settings
	APIKeys struct {
		OpenAI string `json:"openai"`
		Google string `json:"google"`
	} `json:"apiKeys"`
}

// GetOrCreateKey returns the installation's AES-256 key, generating and
// persisting one on first use. Repeated calls return the same key.
//
// If the stored material cannot be parsed (corruption, or a changed
// passphrase), a fresh key is generated and stored in its place. Previously
// encrypted secrets become unreadable; LoadSettings degrades them to "not
// configured".
func (v *Vault) GetOrCreateKey(ctx context.Context) ([]byte, error) {
	records, err := v.store.Get(ctx, keyMaterialStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read key material: %w", err)
	}

	if material, ok := records[keyMaterialStorageKey]; ok {
		key, err := v.importKey(material)
		if err == nil {
			return key, nil
		}
		v.log.Warn(ctx, "stored key material is unreadable, generating a new key; previously encrypted secrets are now unrecoverable", "error", err)
	}

	key, err := cryptox.GenerateKey()
	if err != nil {
		return nil, err
	}
	material, err := v.exportKey(key)
	if err != nil {
		return nil, err
	}
	if err := v.store.Set(ctx, map[string][]byte{keyMaterialStorageKey: material}); err != nil {
		return nil, fmt.Errorf("failed to persist key material: %w", err)
	}
	v.log.Info(ctx, "generated and stored new encryption key")
	return key, nil
}

func (v *Vault) exportKey(key []byte) ([]byte, error) {
	material, err := cryptox.ExportJWK(key)
	if err != nil {
		return nil, err
	}
	if v.passphrase != nil {
		return cryptox.SealKey(material, v.passphrase)
	}
	return material, nil
}

func (v *Vault) importKey(material []byte) ([]byte, error) {
	if v.passphrase != nil {
		opened, err := cryptox.OpenKey(material, v.passphrase)
		if err != nil {
			return nil, err
		}
		material = opened
	}
	return cryptox.ImportJWK(material)
}

// SaveSettings writes the settings object under the current-format key,
// replacing plaintext API keys with encrypted payloads. A provider without a
// configured key is stored as an explicit null payload so "not configured"
// round-trips exactly.
func (v *Vault) SaveSettings(ctx context.Context, s *models.Settings) error {
	key, err := v.GetOrCreateKey(ctx)
	if err != nil {
		return err
	}

	record := storedSettings{Settings: *s}

	record.SecData.OpenAI, err = v.encryptAPIKey(key, s, models.ProviderOpenAI)
	if err != nil {
		return err
	}
	record.SecData.Google, err = v.encryptAPIKey(key, s, models.ProviderGoogle)
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := v.store.Set(ctx, map[string][]byte{settingsStorageKey: data}); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

func (v *Vault) encryptAPIKey(key []byte, s *models.Settings, p models.Provider) (*cryptox.Payload, error) {
	plaintext, ok := s.APIKeys[p]
	if !ok || plaintext == "" {
		return nil, nil
	}
	payload, err := cryptox.EncryptString(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt %s api key: %w", p, err)
	}
	return payload, nil
}

// LoadSettings reads the persisted settings, decrypting API keys.
//
// Precedence: the current-format record wins; otherwise a legacy-format
// record is migrated in place (its plaintext keys re-encrypted, the legacy
// record removed) and returned. On a true first run both are absent and
// (nil, nil) is returned.
func (v *Vault) LoadSettings(ctx context.Context) (*models.Settings, error) {
	key, err := v.GetOrCreateKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := v.store.Get(ctx, settingsStorageKey, legacySettingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if data, ok := records[settingsStorageKey]; ok {
		return v.loadCurrent(ctx, key, data)
	}
	if data, ok := records[legacySettingsKey]; ok {
		return v.migrateLegacy(ctx, data)
	}
	return nil, nil
}

func (v *Vault) loadCurrent(ctx context.Context, key []byte, data []byte) (*models.Settings, error) {
	var record storedSettings
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	s := record.Settings
	s.APIKeys = map[models.Provider]string{}
	v.decryptAPIKey(ctx, key, &s, models.ProviderOpenAI, record.SecData.OpenAI)
	v.decryptAPIKey(ctx, key, &s, models.ProviderGoogle, record.SecData.Google)
	s.Normalize()
	return &s, nil
}

// decryptAPIKey decrypts one provider's payload into s.APIKeys. A nil
// payload means no key was ever stored and is silently skipped; a payload
// that fails to decrypt is logged and skipped, degrading that provider (and
// only that provider) to "not configured".
func (v *Vault) decryptAPIKey(ctx context.Context, key []byte, s *models.Settings, p models.Provider, payload *cryptox.Payload) {
	if payload == nil {
		return
	}
	plaintext, err := cryptox.DecryptString(key, payload)
	if err != nil {
		v.log.Warn(ctx, "stored api key could not be decrypted, treating as not configured", "provider", p, "error", err)
		return
	}
	s.APIKeys[p] = plaintext
}

func (v *Vault) migrateLegacy(ctx context.Context, data []byte) (*models.Settings, error) {
	v.log.Info(ctx, "legacy settings format found, migrating to encrypted format")

	var legacy legacySettings
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal legacy settings: %w", err)
	}

	s := legacy.Settings
	s.APIKeys = map[models.Provider]string{}
	if legacy.APIKeys.OpenAI != "" {
		s.APIKeys[models.ProviderOpenAI] = legacy.APIKeys.OpenAI
	}
	if legacy.APIKeys.Google != "" {
		s.APIKeys[models.ProviderGoogle] = legacy.APIKeys.Google
	}
	s.Normalize()

	if err := v.SaveSettings(ctx, &s); err != nil {
		return nil, fmt.Errorf("failed to write migrated settings: %w", err)
	}
	if err := v.store.Delete(ctx, legacySettingsKey); err != nil {
		return nil, fmt.Errorf("failed to remove legacy settings: %w", err)
	}

	v.log.Info(ctx, "migration complete, legacy settings removed")
	return &s, nil
}
