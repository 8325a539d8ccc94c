package report

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The token is a format/version gate, not authentication: the key ships in
// every client install and is mutual to all of them. The server only uses it
// to reject stale protocol versions and casual abuse.
var tokenKey = []byte(
	"BE11C9E53416BB9B9FB99B33C" +
		"5B8AF0FA6A55CABB3F33774E3" +
		"437AE83BF4E8DB")

const (
	tokenAudience = "ZodiacBuddy"
	tokenIssuer   = "ZodiacBuddyDB"
	tokenVersion  = 2
	tokenTTL      = 15 * time.Minute
)

// accessToken signs the identity claim sent in the x-access-token header.
func accessToken(contentID uint64, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     contentID,
		"aud":     tokenAudience,
		"iss":     tokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
		"version": tokenVersion,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenKey)
}
