package controller

import (
	mrand "math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/middleware"
)

type weightedCode struct {
	code   int
	weight float64
}

// parseStatusCodes accepts a single status code ("418") or a weighted list
// ("200:3,500:1"). Weights default to 1.
func parseStatusCodes(spec string) ([]weightedCode, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, errors.New("missing status code")
	}
	parts := strings.Split(spec, ",")
	codes := make([]weightedCode, 0, len(parts))
	for _, part := range parts {
		codeStr, weightStr, hasWeight := strings.Cut(strings.TrimSpace(part), ":")
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return nil, errors.Errorf("invalid status code %q", codeStr)
		}
		if code < 100 || code > 599 {
			return nil, errors.Errorf("status code %d out of range [100, 599]", code)
		}
		weight := 1.0
		if hasWeight {
			weight, err = strconv.ParseFloat(weightStr, 64)
			if err != nil || weight < 0 {
				return nil, errors.Errorf("invalid weight %q for status code %d", weightStr, code)
			}
		}
		codes = append(codes, weightedCode{code: code, weight: weight})
	}
	return codes, nil
}

func chooseWeighted(codes []weightedCode) int {
	if len(codes) == 1 {
		return codes[0].code
	}
	total := 0.0
	for _, wc := range codes {
		total += wc.weight
	}
	if total <= 0 {
		return codes[0].code
	}
	pick := mrand.Float64() * total
	for _, wc := range codes {
		pick -= wc.weight
		if pick < 0 {
			return wc.code
		}
	}
	return codes[len(codes)-1].code
}

const teapotBody = "\n    -=[ teapot ]=-\n\n       _...._\n     .'  _ _ `.\n    | .\"` ^ `\". _,\n    \\_;`\"---\"`|//\n      |       ;/\n      \\_     _/\n        `\"\"\"`\n"

// Status responds with the requested status code. A comma-separated weighted
// list picks one code at random per request.
func Status(c *gin.Context) {
	codes, err := parseStatusCodes(c.Param("codes"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return
	}

	code := chooseWeighted(codes)
	switch {
	case code == http.StatusUnauthorized:
		c.Header("WWW-Authenticate", `Basic realm="Fake Realm"`)
	case code == http.StatusProxyAuthRequired:
		c.Header("Proxy-Authenticate", `Basic realm="Fake Realm"`)
	case code == http.StatusTeapot:
		c.Data(code, "text/plain; charset=utf-8", []byte(teapotBody))
		return
	case code >= 300 && code < 400 && code != http.StatusNotModified:
		c.Header("Location", "/redirect/1")
	}
	c.Status(code)
}
