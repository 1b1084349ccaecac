package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"userprefs-backend/internal/preferences"
	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/storage/object"
	s3issuer "userprefs-backend/internal/shared/storage/object/s3"
)

func baseConfig() config.Config {
	return config.Config{
		Env:               "dev",
		ErrorDetails:      true,
		StagePrefixes:     []string{"dev", "prod", "staging"},
		IdentityClaim:     "sub",
		DevIdentityHeader: "X-User-Id",
		AWSRegion:         "us-east-1",
		PreferencesStore:  config.StoreDynamoDB,
		PresignExpiration: 3600,
	}
}

func TestBuildDevFallbacks(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	app, err := Build(baseConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := app.PreferencesRepo.(*preferences.MemoryRepo); !ok {
		t.Fatalf("expected memory repo without a table, got %T", app.PreferencesRepo)
	}
	if _, ok := app.Issuer.(object.Disabled); !ok {
		t.Fatalf("expected disabled issuer without a bucket, got %T", app.Issuer)
	}

	req := httptest.NewRequest(http.MethodPut, "/dev/user/preferences", strings.NewReader(`{"theme":"dark"}`))
	req.Header.Set("X-User-Id", "dev-user")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/upload-url", strings.NewReader(`{"fileName":"a.png","contentType":"image/png"}`))
	req.Header.Set("X-User-Id", "dev-user")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from disabled issuer, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["details"], object.ErrNotConfigured.Error()) {
		t.Fatalf("expected not-configured details, got %v", body)
	}
}

func TestBuildDevHeaderDisabledInLambda(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "prefs-api")

	app, err := Build(baseConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/preferences", nil)
	req.Header.Set("X-User-Id", "spoofed")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("trusted header must be ignored in lambda, got %d", rec.Code)
	}
}

func TestBuildProductionRequiresCollaborators(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	tests := []struct {
		name  string
		tweak func(*config.Config)
	}{
		{name: "dynamodb without table", tweak: func(c *config.Config) { c.S3Bucket = "images" }},
		{name: "postgres without url", tweak: func(c *config.Config) {
			c.PreferencesStore = config.StorePostgres
			c.S3Bucket = "images"
		}},
		{name: "no bucket", tweak: func(c *config.Config) { c.PreferencesStore = config.StoreMemory }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Env = "production"
			tt.tweak(&cfg)
			if _, err := Build(cfg); err == nil {
				t.Fatalf("expected startup error")
			}
		})
	}
}

func TestBuildProductionWiresAWS(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")

	cfg := baseConfig()
	cfg.Env = "production"
	cfg.PreferencesTable = "prefs"
	cfg.S3Bucket = "images"

	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if repo, ok := app.PreferencesRepo.(*preferences.DynamoRepo); !ok || repo.Table != "prefs" {
		t.Fatalf("expected dynamo repo on table prefs, got %#v", app.PreferencesRepo)
	}
	if _, ok := app.Issuer.(*s3issuer.Issuer); !ok {
		t.Fatalf("expected s3 issuer, got %T", app.Issuer)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/preferences", nil)
	req.Header.Set("X-User-Id", "spoofed")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("trusted header must be ignored in production, got %d", rec.Code)
	}
}
