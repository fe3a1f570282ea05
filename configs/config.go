package config

import "os"

type R2 struct {
	AccountID     string
	AccessKey     string
	SecretKey     string
	BucketName    string
	PublicBaseURL string
}

// PostedStatusPolicy values. "always" mirrors the historical behavior of
// marking a post as posted even when every platform rejected it.
const (
	PostedPolicyAlways     = "always"
	PostedPolicyAnySuccess = "any-success"
)

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	MetaAppID          string
	MetaAppSecret      string
	MetaRedirectURI    string
	GeminiAPIKey       string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	SecretKey          string
	CookieName         string
	PostedStatusPolicy string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		MetaAppID:          getEnv("META_APP_ID", ""),
		MetaAppSecret:      getEnv("META_APP_SECRET", ""),
		MetaRedirectURI:    getEnv("META_REDIRECT_URI", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:     getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:     getEnv("R2_ACCESS_KEY", ""),
			SecretKey:     getEnv("R2_SECRET_KEY", ""),
			BucketName:    getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL: getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		SecretKey:          getEnv("SECRET_KEY", ""),
		CookieName:         getEnv("COOKIE_NAME", "postpilot_session"),
		PostedStatusPolicy: getEnv("POSTED_STATUS_POLICY", PostedPolicyAlways),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
