package controller

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/common/random"
	"github.com/songquanpeng/echobin/dto"
	"github.com/songquanpeng/echobin/middleware"
)

const digestRealm = "echobin@localhost"

// nonceLedger is the service's sole cross-request state: it tracks how often
// each issued digest nonce was used so stale and replayed nonces can be
// rejected. Entries are keyed by nonce, so unrelated clients never observe
// each other's state, and they expire with the nonce TTL.
var (
	nonceMu     sync.Mutex
	nonceLedger = gocache.New(config.DigestNonceTTL, time.Minute)
)

type nonceState struct {
	uses   int
	burned bool
}

func digestHash(algorithm, data string) string {
	switch algorithm {
	case "SHA-256":
		sum := sha256.Sum256([]byte(data))
		return hex.EncodeToString(sum[:])
	case "SHA-512":
		sum := sha512.Sum512([]byte(data))
		return hex.EncodeToString(sum[:])
	default:
		sum := md5.Sum([]byte(data))
		return hex.EncodeToString(sum[:])
	}
}

// digestChallenge issues a 401 carrying a fresh nonce and registers it in the
// ledger.
func digestChallenge(c *gin.Context, qop, algorithm string, stale bool) {
	nonce := digestHash(algorithm, fmt.Sprintf("%s:%d:%s", c.ClientIP(), time.Now().UnixNano(), random.GetRandomString(10)))
	opaque := digestHash(algorithm, random.GetRandomString(10))

	nonceMu.Lock()
	nonceLedger.SetDefault(nonce, &nonceState{})
	nonceMu.Unlock()

	qopValue := qop
	if qopValue == "" {
		qopValue = "auth,auth-int"
	}
	header := fmt.Sprintf("Digest realm=%q, nonce=%q, opaque=%q, qop=%q, algorithm=%s",
		digestRealm, nonce, opaque, qopValue, algorithm)
	if stale {
		header += ", stale=TRUE"
	}
	c.Header("WWW-Authenticate", header)
	c.Status(http.StatusUnauthorized)
	c.Abort()
}

// parseDigestHeader splits a Digest Authorization header into its key=value
// fields, honoring quoted values. Keys are lowercased.
func parseDigestHeader(header string) (map[string]string, bool) {
	rest, found := strings.CutPrefix(header, "Digest ")
	if !found {
		return nil, false
	}
	fields := make(map[string]string)
	for {
		rest = strings.TrimLeft(rest, " \t,")
		if rest == "" {
			break
		}
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return nil, false
		}
		key := strings.ToLower(strings.TrimSpace(rest[:eq]))
		rest = rest[eq+1:]
		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.Index(rest[1:], `"`)
			if end < 0 {
				return nil, false
			}
			value = rest[1 : 1+end]
			rest = rest[end+2:]
		} else if end := strings.IndexAny(rest, ", \t"); end >= 0 {
			value, rest = rest[:end], rest[end:]
		} else {
			value, rest = rest, ""
		}
		fields[key] = value
	}
	return fields, true
}

// expectedDigestResponse computes the response hash the client should have
// sent for the given credentials, per RFC 7616.
func expectedDigestResponse(fields map[string]string, method, user, passwd, algorithm string, body []byte) string {
	ha1 := digestHash(algorithm, strings.Join([]string{user, digestRealm, passwd}, ":"))
	a2 := method + ":" + fields["uri"]
	if fields["qop"] == "auth-int" {
		a2 += ":" + digestHash(algorithm, string(body))
	}
	ha2 := digestHash(algorithm, a2)

	switch fields["qop"] {
	case "auth", "auth-int":
		return digestHash(algorithm, strings.Join([]string{ha1, fields["nonce"], fields["nc"], fields["cnonce"], fields["qop"], ha2}, ":"))
	default:
		return digestHash(algorithm, strings.Join([]string{ha1, fields["nonce"], ha2}, ":"))
	}
}

// DigestAuth simulates the digest challenge-response handshake, including
// stale-nonce and replayed-nonce handling.
func DigestAuth(c *gin.Context) {
	user := c.Param("user")
	passwd := c.Param("passwd")

	qop := c.Param("qop")
	if qop != "auth" && qop != "auth-int" {
		qop = ""
	}
	algorithm := c.Param("algorithm")
	if algorithm == "" {
		algorithm = "MD5"
	}
	if algorithm != "MD5" && algorithm != "SHA-256" && algorithm != "SHA-512" {
		middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("unsupported digest algorithm %q", algorithm))
		return
	}
	staleAfter := 0 // 0 means nonces never go stale from use
	if raw := c.Param("stale_after"); raw != "" && raw != "never" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.Errorf("invalid stale_after %q", raw))
			return
		}
		staleAfter = parsed
	}

	fields, ok := parseDigestHeader(c.GetHeader("Authorization"))
	if !ok {
		digestChallenge(c, qop, algorithm, false)
		return
	}
	for _, required := range []string{"username", "nonce", "uri", "response"} {
		if fields[required] == "" {
			digestChallenge(c, qop, algorithm, false)
			return
		}
	}
	if clientQop := fields["qop"]; clientQop == "auth" || clientQop == "auth-int" {
		if fields["cnonce"] == "" || fields["nc"] == "" {
			digestChallenge(c, qop, algorithm, false)
			return
		}
	}

	nonceMu.Lock()
	stateValue, known := nonceLedger.Get(fields["nonce"])
	var state *nonceState
	if known {
		state = stateValue.(*nonceState)
		if !state.burned {
			state.uses++
		}
	}
	nonceMu.Unlock()

	if !known || state.burned {
		digestChallenge(c, qop, algorithm, true)
		return
	}

	body, _ := c.GetRawData()
	expected := expectedDigestResponse(fields, c.Request.Method, user, passwd, algorithm, body)
	if fields["username"] != user || fields["response"] != expected {
		// A failed attempt burns the nonce; any replay of it is stale.
		nonceMu.Lock()
		state.burned = true
		nonceMu.Unlock()
		digestChallenge(c, qop, algorithm, false)
		return
	}
	if staleAfter > 0 && state.uses > staleAfter {
		digestChallenge(c, qop, algorithm, true)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Authenticated: true, User: user})
}
