package sanitize

import "context"

// Rewriter produces sanitized companion files instead of loading a
// store: every source file is rewritten into the output directory with
// fields quoted and joined by a single pipe.
//
// Rows whose field count differs from the header's are dropped with a
// warning, mirroring the load path's column mismatch policy.
type Rewriter interface {
	// Run executes a rewrite run and returns its summary.
	Run(ctx context.Context, cfg RewriteConfig) (RunSummary, error)
}
