// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs a set of named [Checks] in parallel under one
// timeout and answers 503 when any of them fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "graphdb": graphdb.ContextHealthcheck(graph),
//	}))
//
// Responses are plain text by default. Send Accept: application/json or
// ?format=json for a per-check report:
//
//	{"status":"unhealthy","checks":{"graphdb":{"status":"unhealthy","error":"...","duration":"2ms"}}}
//
// Checks receive the request context, so request-scoped values (such as the
// serving application) are visible to them.
package health
