package tallytest_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/testutil"
	"git.sr.ht/~jakintosh/tally/pkg/tallytest"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

var testKeys = tallytest.Keys{
	SessionKey:   []byte("tallytest-session-key-0123456789"),
	CSRFKey:      []byte("tallytest-csrf-key-0123456789abc"),
	IssuerDomain: "tallytest",
}

func TestNewSession_Decodes(t *testing.T) {
	t.Parallel()

	sess, err := tallytest.NewSession(testKeys, "a@b.com", 0)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	// cookie value is a bearer token the shared secret accepts
	_, validator := tokens.InitServer(testKeys.SessionKey, testKeys.IssuerDomain)
	decoded := &tokens.SessionToken{}
	if err := decoded.Decode(sess.CookieValue[len("Bearer "):], validator); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Subject() != "a@b.com" {
		t.Errorf("subject = %s", decoded.Subject())
	}
	if got := time.Until(sess.ExpiresAt); got > time.Hour || got < 59*time.Minute {
		t.Errorf("default lifetime off: %v", got)
	}
}

func TestNewSession_Lifetime(t *testing.T) {
	t.Parallel()

	sess, err := tallytest.NewSession(testKeys, "a@b.com", time.Minute)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if time.Until(sess.ExpiresAt) > time.Minute {
		t.Errorf("lifetime not applied: expires %v", sess.ExpiresAt)
	}
}

func TestCookie_Attributes(t *testing.T) {
	t.Parallel()

	sess, err := tallytest.NewSession(testKeys, "a@b.com", 0)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	c := tallytest.Cookie(sess)
	if c.Name != "access_token" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode {
		t.Errorf("unexpected cookie: %+v", c)
	}
}

func TestAuthorize_AgainstRouter(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)

	// a session minted with the server's keys passes its CSRF and session gates
	sess, err := tallytest.NewSession(tallytest.Keys{
		SessionKey:   testutil.SessionKey(),
		CSRFKey:      testutil.CSRFKey(),
		IssuerDomain: testutil.TestIssuer,
	}, "a@b.com", 0)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	// the env clock is frozen at setup; step it past the real-time iat
	env.Clock.Advance(5 * time.Second)

	req := httptest.NewRequest(http.MethodDelete, "/api/todo/missing", nil)
	tallytest.Authorize(req, sess)
	res := httptest.NewRecorder()
	env.Router.ServeHTTP(res, req)

	// past both gates the missing todo is a 404
	if res.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404. Body: %s", res.Code, res.Body.String())
	}
}
