// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery and parsing, evaluation of
// `var.*` expressions with cty, and translation of `workflow` and `job`
// blocks into the format-agnostic config model.
//
// A workflow file looks like:
//
//	variable "comm" {
//	  default = 2
//	}
//
//	workflow "example" {
//	  machines = 2
//
//	  job "A" { duration = 5 }
//	  job "B" { duration = 3 }
//	  job "D" {
//	    duration   = 4
//	    depends_on = { A = var.comm, B = 1 }
//	  }
//	}
//
// `depends_on` maps producer job ids to the communication weight of the edge.
package hcl
