// Package health serves liveness and readiness probes for the login host.
//
// Readiness runs the credential store checks concurrently under one
// deadline:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Responses are plain text unless the client sends Accept: application/json
// or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy", "latency_ms": 2},
//	    "redis": {"status": "unhealthy", "error": "dial tcp: connection refused", "latency_ms": 0}
//	  }
//	}
package health
