// Package identity reads the caller's subject from whatever the edge already
// authenticated. Tokens are never verified here.
package identity

import (
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
)

// DefaultClaim is the JWT claim that carries the subject.
const DefaultClaim = "sub"

// Extractor yields the authenticated subject of a request. Absence is not an
// error.
type Extractor interface {
	Extract(r *http.Request) (subject string, ok bool)
}

// GatewayClaims reads the claim from the API Gateway HTTP API authorizer
// context that the Lambda proxy adapter attaches to the request.
type GatewayClaims struct {
	Claim string
}

func (g GatewayClaims) Extract(r *http.Request) (string, bool) {
	rc, ok := core.GetAPIGatewayV2ContextFromContext(r.Context())
	if !ok {
		return "", false
	}
	return SubjectFromRequestContext(rc, g.Claim)
}

// SubjectFromRequestContext walks requestContext.authorizer.jwt.claims[claim].
// Any missing level means no subject.
func SubjectFromRequestContext(rc events.APIGatewayV2HTTPRequestContext, claim string) (string, bool) {
	if claim == "" {
		claim = DefaultClaim
	}
	if rc.Authorizer == nil || rc.Authorizer.JWT == nil {
		return "", false
	}
	subject, ok := rc.Authorizer.JWT.Claims[claim]
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}

// TrustedHeader takes the subject from a request header. Only for local
// development where no gateway sits in front of the server.
type TrustedHeader struct {
	Header string
}

func (h TrustedHeader) Extract(r *http.Request) (string, bool) {
	if h.Header == "" {
		return "", false
	}
	subject := strings.TrimSpace(r.Header.Get(h.Header))
	if subject == "" {
		return "", false
	}
	return subject, true
}

// Chain tries each extractor in order.
type Chain []Extractor

func (c Chain) Extract(r *http.Request) (string, bool) {
	for _, e := range c {
		if subject, ok := e.Extract(r); ok {
			return subject, true
		}
	}
	return "", false
}
