// Package services defines the shared error taxonomy for external
// collaborators (generators, upscalers, interpolators) and the Wrap helper
// used to tag failures with component context for later classification.
package services
