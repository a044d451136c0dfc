package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/store"
)

type fakeUsers struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func (f *fakeUsers) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	return &user, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func newTestManager(t *testing.T) (*Manager, *models.User) {
	t.Helper()
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	user := &models.User{ID: "11111111-1111-1111-1111-111111111111", Email: "alice@example.com", PasswordHash: hash}
	users := &fakeUsers{
		byID:    map[string]*models.User{user.ID: user},
		byEmail: map[string]*models.User{user.Email: user},
	}
	return NewManager(users, "test-secret", time.Hour), user
}

// carry copies cookies set on a recorder into a fresh request, simulating
// the browser's next visit: later Set-Cookie headers override earlier ones
// and expirations delete.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	jar := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(jar, c.Name)
			continue
		}
		if _, seen := jar[c.Name]; !seen {
			order = append(order, c.Name)
		}
		jar[c.Name] = c
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, name := range order {
		if c, ok := jar[name]; ok {
			r.AddCookie(c)
		}
	}
	return r
}

func TestAuthenticate(t *testing.T) {
	m, user := newTestManager(t)
	ctx := context.Background()

	got, err := m.Authenticate(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, wrongPw := m.Authenticate(ctx, "alice@example.com", "nope")
	_, unknown := m.Authenticate(ctx, "bob@example.com", "hunter22")
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
}

func TestIssueAndCurrent(t *testing.T) {
	m, user := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, user))

	got := m.Current(carry(t, rec))
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestCurrentToleratesGarbage(t *testing.T) {
	m, _ := newTestManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, m.Current(r), "no cookie")

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "not-a-jwt"})
	assert.Nil(t, m.Current(r), "malformed token")

	other := NewManager(&fakeUsers{}, "other-secret", time.Hour)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Issue(rec, &models.User{ID: "x"}))
	assert.Nil(t, m.Current(carry(t, rec)), "foreign signature")
}

func TestClearEndsSession(t *testing.T) {
	m, user := newTestManager(t)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, user))
	m.Clear(rec)

	assert.Nil(t, m.Current(carry(t, rec)))
}

func TestFlashesAreOneShot(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	AddFlashes(rec, r, Flash{Level: "error", Text: "first"}, Flash{Level: "info", Text: "second"})

	rec2 := httptest.NewRecorder()
	got := TakeFlashes(rec2, carry(t, rec))
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)

	// The take must clear the cookie.
	assert.Empty(t, TakeFlashes(httptest.NewRecorder(), carry(t, rec2)))
}

func TestReturnPathIsOneShot(t *testing.T) {
	rec := httptest.NewRecorder()
	RememberPath(rec, "/myposts")

	rec2 := httptest.NewRecorder()
	assert.Equal(t, "/myposts", TakeReturnPath(rec2, carry(t, rec)))
	assert.Equal(t, "", TakeReturnPath(httptest.NewRecorder(), carry(t, rec2)))
}

func TestReturnPathRejectsOffSiteTargets(t *testing.T) {
	for _, path := range []string{"//evil.example.com", "http://evil.example.com", ""} {
		rec := httptest.NewRecorder()
		RememberPath(rec, path)
		assert.Empty(t, rec.Result().Cookies(), "path %q", path)
	}
}
