// Package config provides configuration parsing for dragsort.
//
// The configuration is stored in dragsort.json next to the binary's working
// directory. Every field is optional; missing values take the defaults from
// New.
//
// # Configuration File Structure
//
//	{
//	  "drag": {
//	    "throttleWindow": "50ms",
//	    "staleTimeout": "30s"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 4100,
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "allowedOrigins": ["http://localhost:3000"]
//	  },
//	  "metrics": {"enabled": true, "namespace": "dragsort", "path": "/metrics"},
//	  "tracing": {"enabled": false, "tracerName": "dragsort"},
//	  "log": {"level": "info", "format": "text"},
//	  "board": [
//	    {"name": "todo", "items": [{"id": "t1", "label": "Write docs"}]},
//	    {"name": "done", "items": []}
//	  ]
//	}
//
// Durations use Go duration syntax.
package config
