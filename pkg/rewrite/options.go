package rewrite

//go:generate go run github.com/ecordell/optgen -output zz_generated.options.go . ReduceOptions

// ReduceOptions configures a single Reduce call.
type ReduceOptions struct {
	// MaxIterations caps the number of successful rewrites; zero disables the cap.
	MaxIterations uint32 `debugmap:"visible" default:"100000"`

	// DetectCycles aborts the reduction when a rewrite reproduces a tree seen
	// earlier in the same reduction.
	DetectCycles bool `debugmap:"visible"`

	// RecordMetrics reports rule applications to the Prometheus collectors.
	RecordMetrics bool `debugmap:"visible" default:"true"`
}
