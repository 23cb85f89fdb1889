// Package security guarda o CPF criptografado em repouso. AES-256-GCM
// com nonce aleatório: o mesmo CPF gera ciphertexts diferentes e nada
// legível encosta no banco.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Cipher struct {
	aead cipher.AEAD
}

// NewCipher exige chave de 32 bytes. Falha na construção, não no uso:
// sem chave válida o processo nem sobe.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("chave de criptografia deve ter 32 bytes, veio %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// NewCipherFromEnv lê ENCRYPTION_KEY (base64 ou hex de 32 bytes).
func NewCipherFromEnv() (*Cipher, error) {
	raw := strings.TrimSpace(os.Getenv("ENCRYPTION_KEY"))
	if raw == "" {
		return nil, errors.New("ENCRYPTION_KEY não configurada")
	}

	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == 32 {
		return NewCipher(key)
	}
	if key, err := hex.DecodeString(raw); err == nil && len(key) == 32 {
		return NewCipher(key)
	}

	return nil, errors.New("ENCRYPTION_KEY inválida: esperado 32 bytes em base64 ou hex")
}

// EncryptTaxID limpa o CPF para só dígitos e criptografa.
// CPF vazio (ou sem dígito nenhum) vira string vazia, sem erro.
func (c *Cipher) EncryptTaxID(raw string) (string, error) {
	clean := OnlyDigits(raw)
	if clean == "" {
		return "", nil
	}
	return c.Encrypt(clean)
}

func (c *Cipher) Encrypt(plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt devolve "" para qualquer entrada inválida: falha
// determinística, nunca panic nem lixo.
func (c *Cipher) Decrypt(encoded string) string {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}

	size := c.aead.NonceSize()
	if len(sealed) < size {
		return ""
	}

	plain, err := c.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return ""
	}
	return string(plain)
}

func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HashIP anonimiza o IP do visitante para rate limit e auditoria.
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}
