package graphdb

import "context"

// Shutdown returns a function that closes every driver held by ext.
// Use with neoforge.ShutdownHook().
//
// Example:
//
//	neoforge.Run(
//	    neoforge.Domain("api.example.com", api),
//	    neoforge.ShutdownHook(graphdb.Shutdown(ext)),
//	)
func Shutdown(ext *Extension) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return ext.Close(ctx)
	}
}
