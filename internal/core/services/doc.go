// Package services implements the driving port interfaces.
// Services contain the question answering pipeline and orchestrate
// calls to driven ports (adapters).
//
// Services reach infrastructure only through the driven ports.
package services
