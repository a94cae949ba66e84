// internal/httpserver/token.go
//
// Play tokens bind a browser's guesses to the play-through it started.
//   - Issued by POST /api/start as an HS256 JWT whose subject is the session ID.
//   - Sent back as a Bearer header or the play cookie.
//   - A guess carrying the token of an earlier play-through is rejected as stale.

package httpserver

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/flagquiz/internal/game"
)

const playCookieName = "flagquiz_play"

// tokenGrace is how long a token outlives its round.
const tokenGrace = 5 * time.Minute

var (
	errNoToken      = errors.New("no play token")
	errInvalidToken = errors.New("invalid play token")
)

// tokens signs and verifies play tokens.
type tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// newTokens uses secret, or 32 random bytes when secret is empty.
func newTokens(secret string) (*tokens, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &tokens{
		secret: key,
		ttl:    game.RoundSeconds*time.Second + tokenGrace,
		now:    time.Now,
	}, nil
}

// sign issues a token for sessionID and reports its expiry.
func (t *tokens) sign(sessionID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// verify returns the session ID carried by a valid token.
func (t *tokens) verify(s string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(s, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// sessionFromRequest extracts and verifies the play token.
func (t *tokens) sessionFromRequest(r *http.Request) (string, error) {
	raw := bearerOrCookie(r)
	if raw == "" {
		return "", errNoToken
	}
	return t.verify(raw)
}

// setPlayCookie writes the play token cookie.
func setPlayCookie(w http.ResponseWriter, token string, exp time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     playCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or the play cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playCookieName); err == nil {
		return c.Value
	}
	return ""
}
