package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkurali/userhub/internal/domain/user"
	"github.com/mkurali/userhub/internal/http/middlewares"
	"github.com/mkurali/userhub/internal/repo/memory"
)

// keep gin quiet during tests

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeHasher avoids bcrypt latency in handler tests. The real hasher has its
// own tests in internal/security.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (fakeHasher) Check(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.New("password mismatch")
	}
	return nil
}

// fakeIssuer is a deterministic stand-in for the jwt manager.
type fakeIssuer struct {
	err error
}

func (f fakeIssuer) GenerateToken(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func setupRouter(method, path string, mw []gin.HandlerFunc, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append(append([]gin.HandlerFunc{}, mw...), h)
	r.Handle(method, path, chain...)

	return r
}

// asUser injects a resolved current user the way the auth middleware would.
func asUser(u user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxCurrentUser, u)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}

	return env
}

func seedUser(t *testing.T, repo *memory.UsersRepo, firstName, email, role, password string) user.User {
	t.Helper()

	u := user.NewFromCreateRequest(user.CreateUserRequest{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     email,
		Password:  password,
		Role:      role,
	}, "hashed:"+password)

	created, err := repo.Create(context.Background(), u)

	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return created
}

// seedUserAt backdates createdAt so list-order tests are deterministic.
func seedUserAt(t *testing.T, repo *memory.UsersRepo, firstName, email, role string, createdAt time.Time) user.User {
	t.Helper()

	u := user.NewFromCreateRequest(user.CreateUserRequest{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     email,
		Role:      role,
	}, "hashed:pw123456")

	u.CreatedAt = createdAt
	u.UpdatedAt = createdAt

	created, err := repo.Create(context.Background(), u)

	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return created
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("status = %d, want %d, body %s", w.Code, want, w.Body.String())
	}
}
