// Package config defines the format-agnostic model of workflow definitions,
// along with the Loader interface implemented by concrete input formats.
//
// The `config.Model` is what the application hands to the scheduler: each
// Workflow is turned into an isolated workflow.Graph with Build. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
