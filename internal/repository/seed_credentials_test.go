package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// The dev seed promises that every account logs in with "password123"; a
// stale hash there makes the seeded fixtures unusable end to end.
func TestSeedPasswordHashesVerify(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0002_seed.sql"))
	require.NoError(t, err)

	hashes := regexp.MustCompile(`\$2a\$\d{2}\$[./A-Za-z0-9]{53}`).FindAllString(string(raw), -1)
	require.NotEmpty(t, hashes, "seed file carries no bcrypt hashes")

	for _, hash := range hashes {
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")),
			"seed hash %s does not verify the documented password", hash)
	}
}
