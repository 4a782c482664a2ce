package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateAccessToken produit le jeton capacitaire d'un rapport : 24 octets
// aléatoires (192 bits) encodés en hexadécimal. Le jeton est la seule
// autorisation du lien public, il ne doit jamais être devinable.
func GenerateAccessToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
