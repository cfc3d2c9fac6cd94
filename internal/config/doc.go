// Package config loads the configuration of the trending front-end server.
//
// Configuration lives in trending.json (or trending.toml) at the project
// root. Every field has a default, and TRENDING_* environment variables
// override the file.
//
// # Configuration File Structure
//
//	{
//	  "name": "mlb-trending",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s"
//	  },
//	  "assets": {
//	    "source": "s3",
//	    "index": "index.html",
//	    "s3": { "bucket": "mlb-trending-web", "prefix": "dist/", "region": "us-west-1" }
//	  },
//	  "log": { "level": "info", "format": "json" },
//	  "metrics": { "enabled": true, "namespace": "trending" },
//	  "tracing": { "endpoint": "otel-collector:4318", "insecure": true }
//	}
//
// The same settings in TOML:
//
//	[server]
//	port = 8080
//
//	[assets]
//	source = "dir"
//	dir = "dist"
//
// # Environment
//
//	TRENDING_SERVER_PORT=9000
//	TRENDING_ASSETS_S3_BUCKET=mlb-trending-web
//	TRENDING_LOG_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
