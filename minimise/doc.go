/*
Package minimise implements the generic minimiser framework of goNMR: line-search
algorithms over an opaque objective function (steepest descent, the Fletcher-Reeves and
Polak-Ribiere+ conjugate gradient variants, BFGS), the derivative-free Nelder-Mead
simplex, a grid search for seeding local refinement, and a Method of Multipliers
wrapper that turns linearly constrained problems into a sequence of unconstrained ones.

The framework knows nothing about what physical model produced the objective. The
line-search algorithms are one driver loop composed with a StepComputer strategy, one
implementation per algorithm; the Wolfe conditions (sufficient decrease mu, curvature
eta, initial step a0) are shared.

Non-convergence is never an error: every run ends with a tagged Status on the Result
(converged, gradient-converged, max-iterations, line-search failure, cancelled), so
batch callers such as the Monte Carlo engine can flag individual failures and move on.
Errors are reserved for broken configurations (empty vectors, mismatched shapes).
*/
package minimise
