// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle that loads workflow
// definitions, schedules each one and renders the reports, decoupled from
// any specific entrypoint like a CLI.
package app
