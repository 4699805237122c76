package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "keyvault"

// SavePassword stores a keystore password in the OS keyring
func SavePassword(vaultID, name string, password string) error {
	return keyring.Set(serviceName, account(vaultID, name), password)
}

// GetPassword retrieves a keystore password from the OS keyring
func GetPassword(vaultID, name string) (string, error) {
	return keyring.Get(serviceName, account(vaultID, name))
}

// DeletePassword removes a keystore password from the OS keyring
func DeletePassword(vaultID, name string) error {
	return keyring.Delete(serviceName, account(vaultID, name))
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(vaultID, name string) bool {
	_, err := keyring.Get(serviceName, account(vaultID, name))
	return err == nil
}

// account scopes keyring entries per vault and per keystore, so two vaults
// with a keystore of the same name never collide.
func account(vaultID, name string) string {
	return vaultID + "/" + name
}
