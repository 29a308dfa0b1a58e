/*
Package dispersion holds the exchange-model kernels: pure functions that back-calculate
effective relaxation rates (R2eff for CPMG experiments, R1rho for spin-lock experiments)
from kinetic parameters and an array of experimental conditions. Each kernel fills a
caller-supplied slice shaped like the condition slice.

All kernels take angular quantities (dw, phi_ex, spin-lock fields, offsets) in rad/s;
the ppm conversions are the caller's job. CPMG frequencies are in Hz.

Numerically degenerate evaluations (a propagated magnetization that is non-positive or
non-finite, an acosh argument below 1) never return an error. They back-calculate the
Huge sentinel rate instead, so an optimiser walking into the degenerate region sees an
enormous chi-squared and walks back out.
*/
package dispersion

// Huge is the sentinel effective rate assigned when a kernel evaluation degenerates.
const Huge = 1e99
