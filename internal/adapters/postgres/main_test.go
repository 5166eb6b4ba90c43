package postgres

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/security"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	testDB     *DB
	testSecSvc ports.SecurityPort
)

// TestMain connects to TEST_DATABASE_URL. Without it the package is skipped.
func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping postgres tests")
		os.Exit(0)
	}

	nopLogger := zerolog.Nop()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("TestMain: Failed to generate key: %v", err)
	}
	var err error
	testSecSvc, err = security.NewAESService(key, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: Failed to create security service: %v", err)
	}

	testDB, err = NewDB(context.Background(), url, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: Failed to connect to test database: %v", err)
	}
	if err := testDB.Migrate(context.Background()); err != nil {
		log.Fatalf("TestMain: Failed to migrate: %v", err)
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

// uniqueEmail returns a mixed-case address no other test uses.
func uniqueEmail() string {
	return fmt.Sprintf("Test.%s@Example.com", uuid.NewString()[:8])
}

func cleanupTestUser(t *testing.T, email string) {
	_, err := testDB.pool.Exec(context.Background(), "DELETE FROM users WHERE email = lower($1)", email)
	if err != nil {
		t.Logf("Warning: Failed to cleanup user %s: %v", email, err)
	}
}
