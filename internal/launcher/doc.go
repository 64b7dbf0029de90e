// Package launcher implements the launch dispatcher: the one-time
// privileged setup that runs after the readiness gate has passed, followed
// by the permanent handoff to the target command under the restricted
// identity.
//
// The sequence is fixed. First the shared log volume is re-owned to the
// runtime identity (skipped when the volume is absent), then the command
// vector is classified to pick an announcement line, then privileges are
// dropped and the process image is replaced via exec. Classification is
// observability only; it never changes what is executed. Supervised mode
// swaps the exec for a credentialed child with signal forwarding and
// exit-status mirroring, for images that keep the entrypoint as PID 1.
package launcher
