package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/scrypt"

	pkgerrors "didwallet/pkg/domain-errors"
)

// SecretMaterial is the root key material from which accounts are derived.
type SecretMaterial []byte

// Keyring is the signing/encryption collaborator. The wallet core treats it
// as opaque and already correct; only the keystore blob format below is owned
// here.
type Keyring interface {
	CreateRandomKeypair() (SecretMaterial, error)
	EncryptWithPassword(secret SecretMaterial, password string) ([]byte, error)
	DecryptWithPassword(blob []byte, password string) (SecretMaterial, error)
	DeriveChild(secret SecretMaterial, index uint32) (string, error)
}

// ScryptKeyring encrypts secret material with a password-derived key
// (scrypt + AES-GCM) and derives child addresses deterministically.
type ScryptKeyring struct{}

// NewKeyring returns the default keyring implementation.
func NewKeyring() *ScryptKeyring {
	return &ScryptKeyring{}
}

// scrypt parameters follow the interactive-login recommendation.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	keyLen       = 32
	secretLen    = 32
	keystoreVers = 1
)

type keystoreBlob struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

func (k *ScryptKeyring) CreateRandomKeypair() (SecretMaterial, error) {
	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate key material: %w", err)
	}
	return secret, nil
}

func (k *ScryptKeyring) EncryptWithPassword(secret SecretMaterial, password string) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	blob := keystoreBlob{
		Version:    keystoreVers,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, secret, nil)),
	}
	return json.Marshal(blob)
}

func (k *ScryptKeyring) DecryptWithPassword(raw []byte, password string) (SecretMaterial, error) {
	var blob keystoreBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeValidation, "malformed keystore")
	}
	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeValidation, "malformed keystore salt")
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.Nonce)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeValidation, "malformed keystore nonce")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeValidation, "malformed keystore ciphertext")
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive decryption key: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	secret, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wrong password or corrupt keystore")
	}
	return secret, nil
}

// DeriveChild maps (secret, index) to a stable 20-byte hex address. The
// derivation is deterministic so the same keystore always yields the same
// account list.
func (k *ScryptKeyring) DeriveChild(secret SecretMaterial, index uint32) (string, error) {
	if len(secret) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "empty key material")
	}
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("didwallet/account"))
	mac.Write(idx[:])
	digest := mac.Sum(nil)
	return "0x" + hex.EncodeToString(digest[:20]), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
