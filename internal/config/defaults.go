package config

var defaults = map[string]any{
	"secret":    "",
	"token_ttl": 300,

	"log_level": "info",

	"nonce_store": "memory",
	"field_store": "sql",

	"field_ttl":     30, // days
	"notice_window": 5,  // seconds

	"allowed_networks": "",

	"support_url": DEFAULT_SUPPORT_URL,
	"base_url":    "/",

	"upload.cloud_name":    "ml_default",
	"upload.api_key":       "",
	"upload.upload_preset": "ML_image",
	"upload.endpoint":      "https://api.cloudinary.com/v1_1/%s/image/upload",

	"relay.script_url": "",

	"cache.manifest_file": "web/manifest.yaml",
	"cache.asset_origin":  "http://localhost:8080",

	"email.host":     "host.docker.internal",
	"email.port":     "25",
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@example.com",

	"storage.type":        "sqlite",
	"storage.sqlite.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
