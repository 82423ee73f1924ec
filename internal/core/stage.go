// Package core holds the wiring logic shared by the public builder: the
// ordered stage registry and the chain composer. Keeping it internal isolates
// composition details from the public API surface.
package core

import "github.com/Keksclan/goFlowSquirrel/flow"

// Stage is one named middleware entry of a pipeline under construction.
type Stage struct {
	// Name identifies the stage in error attribution and execution traces.
	Name string

	// MW is the middleware itself.
	MW flow.Middleware

	// OnBuild, when non-nil, is invoked exactly once while the pipeline is
	// built. It is the build-time equivalent of a runtime warning hook.
	OnBuild func()
}
