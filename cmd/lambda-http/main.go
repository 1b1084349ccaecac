package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"userprefs-backend/internal/bootstrap"
	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/server/middleware"
	"userprefs-backend/internal/shared/telemetry"
)

type proxy interface {
	ProxyWithContext(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)
}

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Setup(os.Stdout, "production", "")
		initErr = err
		return
	}
	telemetry.Setup(os.Stdout, cfg.Env, cfg.LogLevel)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func failure() events.APIGatewayV2HTTPResponse {
	headers := map[string]string{}
	for k, v := range middleware.CORSHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message":"Internal Server Error"}`,
		Headers:    headers,
	}
}

// escapeStrayPercents rewrites a '%' that does not start a valid escape as
// "%25", so the path still parses and the literal text reaches the router.
func escapeStrayPercents(path string) string {
	if !strings.Contains(path, "%") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '%' && (i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(path[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func serve(ctx context.Context, p proxy, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	req.RawPath = escapeStrayPercents(req.RawPath)
	req.RequestContext.HTTP.Path = escapeStrayPercents(req.RequestContext.HTTP.Path)
	resp, err := p.ProxyWithContext(ctx, req)
	if err != nil {
		telemetry.Error("lambda.proxy", map[string]any{"err": err.Error(), "path": req.RawPath})
		return failure()
	}
	return resp
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap", map[string]any{"err": initErr.Error()})
		return failure(), nil
	}
	if ginLambda == nil {
		return failure(), nil
	}
	return serve(ctx, ginLambda, req), nil
}

func main() {
	lambda.Start(handler)
}
