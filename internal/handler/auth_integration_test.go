package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/movietix/ticket-booking/internal/config"
	"github.com/movietix/ticket-booking/internal/repository"
)

// End-to-end auth flows against a real MySQL instance loaded with
// db/schema.sql. Set TICKET_BOOKING_TEST_DSN to enable, same as the
// repository suite.
var testDB *sql.DB

func TestMain(m *testing.M) {
	code, err := run(m)
	if err != nil {
		fmt.Println(err)
	}
	os.Exit(code)
}

func run(m *testing.M) (int, error) {
	dsn := os.Getenv("TICKET_BOOKING_TEST_DSN")
	if dsn != "" {
		var err error
		testDB, err = sql.Open("mysql", dsn)
		if err != nil {
			return -1, fmt.Errorf("could not connect to database: %w", err)
		}
		defer testDB.Close()
	}
	return m.Run(), nil
}

func requireAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	if testDB == nil {
		t.Skip("TICKET_BOOKING_TEST_DSN not set; skipping integration test")
	}
	cfg := config.Config{
		JWTSecret:      "integration-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(testDB), repository.NewTokenRepo(testDB))
}

func uniqueEmail(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%s-%d@example.com", strings.ToLower(t.Name()), time.Now().UnixNano())
}

func signupUser(t *testing.T, h *AuthHandler, name, email, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	rec := postJSON(t, h.Signup, "/api/auth/signup", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Signup = %d, body %s", rec.Code, rec.Body.String())
	}
}

type loginResp struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

func loginUser(t *testing.T, h *AuthHandler, email, password string) loginResp {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := postJSON(t, h.Login, "/api/auth/login", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Login = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp loginResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Login response: %v", err)
	}
	return resp
}

func TestSignupLoginRoundTrip(t *testing.T) {
	h := requireAuthHandler(t)
	email := uniqueEmail(t)

	signupUser(t, h, "Alice", email, "s3cret-pass")
	resp := loginUser(t, h, email, "s3cret-pass")

	if resp.Name != "Alice" || resp.Email != email {
		t.Errorf("Login identity = (%q, %q), want (Alice, %q)", resp.Name, resp.Email, email)
	}
	if resp.Refresh.Token == "" {
		t.Error("Login returned no refresh token")
	}
}

// A wrong password and an unknown email must be indistinguishable so
// the endpoint never confirms whether an address is registered.
func TestLoginFailuresIndistinguishable(t *testing.T) {
	h := requireAuthHandler(t)
	email := uniqueEmail(t)
	signupUser(t, h, "Alice", email, "s3cret-pass")

	wrongPass := postJSON(t, h.Login, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"not-the-pass"}`, email))
	unknown := postJSON(t, h.Login, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"not-the-pass"}`, uniqueEmail(t)))

	if wrongPass.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("status = %d / %d, want both 400", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", wrongPass.Body.String(), unknown.Body.String())
	}
}

func TestLogoutAllSessionsRevokesEveryRefreshToken(t *testing.T) {
	h := requireAuthHandler(t)
	email := uniqueEmail(t)
	signupUser(t, h, "Alice", email, "s3cret-pass")

	first := loginUser(t, h, email, "s3cret-pass")
	second := loginUser(t, h, email, "s3cret-pass")

	rec := postJSON(t, h.Logout, "/api/auth/logout",
		fmt.Sprintf(`{"refresh_token":%q,"all_sessions":true}`, first.Refresh.Token))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Logout = %d, body %s", rec.Code, rec.Body.String())
	}

	// The other session's token must be dead too.
	rec = postJSON(t, h.Refresh, "/api/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, second.Refresh.Token))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Refresh after logout-all = %d, want 401", rec.Code)
	}
}

func TestLogoutSingleSessionKeepsOthers(t *testing.T) {
	h := requireAuthHandler(t)
	email := uniqueEmail(t)
	signupUser(t, h, "Alice", email, "s3cret-pass")

	first := loginUser(t, h, email, "s3cret-pass")
	second := loginUser(t, h, email, "s3cret-pass")

	rec := postJSON(t, h.Logout, "/api/auth/logout",
		fmt.Sprintf(`{"refresh_token":%q}`, first.Refresh.Token))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Logout = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, h.Refresh, "/api/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, second.Refresh.Token))
	if rec.Code != http.StatusOK {
		t.Errorf("Refresh of the surviving session = %d, want 200", rec.Code)
	}
}
