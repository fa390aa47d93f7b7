// Package config loads renditional configuration.
//
// Configuration lives in renditional.json, renditional.yaml or
// renditional.yml at the project root. Missing fields take defaults and
// RENDITIONAL_PORT overrides the server port.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "readTimeout": "15s",
//	    "writeTimeout": "15s"
//	  },
//	  "scheduler": {
//	    "maxRunsPerFlush": 10000
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "renditional",
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "tracerName": "renditional"
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {
//	      "bucket": "my-bucket",
//	      "prefix": "renders",
//	      "region": "eu-west-1",
//	      "endpoint": "http://localhost:9000"
//	    }
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
