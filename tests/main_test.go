package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/pastoragenda/backend/internal/app"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/pastor"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	jwtManager *auth.JWTManager
)

func TestMain(m *testing.M) {
	// Attempt to load .env from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Fatalf("TEST_DB_DSN environment variable is not set")
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	testSecret := os.Getenv("TEST_JWT_SECRET")
	if testSecret == "" {
		log.Fatalf("TEST_JWT_SECRET environment variable is not set")
	}

	storageDir, err := os.MkdirTemp("", "pastoragenda-test-files-*")
	if err != nil {
		log.Fatalf("Unable to create temp storage dir: %v", err)
	}

	appContainer, err := app.NewContainer(app.Config{
		DBPool:           testPool,
		JWTSecret:        testSecret,
		JWTTTL:           30 * time.Minute,
		BcryptCost:       4, // Lower cost for testing purposes
		StoragePath:      storageDir,
		ReminderCronSpec: "@every 1h",
	})
	if err != nil {
		log.Fatalf("Unable to initialize application: %v", err)
	}

	testRouter = appContainer.Router
	jwtManager = appContainer.JWTManager

	gin.SetMode(gin.TestMode)

	exitCode := m.Run()

	testPool.Close()
	os.RemoveAll(storageDir)
	os.Exit(exitCode)
}

func clearTables() {
	ctx := context.Background()
	queries := []string{
		"TRUNCATE TABLE public.bookings CASCADE",
		"TRUNCATE TABLE public.event_types CASCADE",
		"TRUNCATE TABLE public.delegation_invitations CASCADE",
		"TRUNCATE TABLE public.files CASCADE",
		"TRUNCATE TABLE public.pastors CASCADE",
	}
	for _, q := range queries {
		_, err := testPool.Exec(ctx, q)
		if err != nil {
			log.Printf("Failed to clean table: %v", err)
		}
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createTestPastor(t *testing.T, username, email, password string) *pastor.Pastor {
	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")

	p := &pastor.Pastor{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Prefs:        pastor.DefaultPrefs(),
	}

	repo := pastor.NewPgxRepository(testPool)
	err = repo.Create(context.Background(), p)
	require.NoError(t, err, "Failed to create test pastor in DB")

	saved, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err, "Failed to fetch created pastor")

	return saved
}

func generateToken(p *pastor.Pastor) string {
	token, _ := jwtManager.GenerateAccessToken(p.ID, p.Email)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
