// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ConfirmationCodeBytes is the entropy of a confirmation code (128 bits).
const ConfirmationCodeBytes = 16

// GenerateSecureToken returns length random bytes from the system CSPRNG, hex encoded.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// GenerateConfirmationCode returns a fresh unguessable confirmation code.
func GenerateConfirmationCode() (string, error) {
	return GenerateSecureToken(ConfirmationCodeBytes)
}

// HashCode hashes a confirmation code with bcrypt before it is persisted.
func HashCode(plainTextCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckCodeHash compares a submitted code with its stored hash in constant time.
// An empty hash never matches.
func CheckCodeHash(plainTextCode, existingHash string) bool {
	if existingHash == "" || plainTextCode == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextCode))
	return err == nil
}

// HashToken derives the lookup key of a high-entropy token (refresh tokens).
// The input must already be high-entropy; no salt is applied.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
