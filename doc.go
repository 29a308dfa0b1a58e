/*
 * doc.go, part of goNMR.
 *
 * Copyright 2016 The goNMR developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Package nmr is the main package of the goNMR relaxation-dispersion library. It provides
the data containers for dispersion experiments (spins, clusters of spins sharing kinetic
parameters, experimental conditions), the exchange-model catalogue with its fixed
parameter layouts and bounds, and a serializable snapshot of fit results.

		**goNMR Capabilities**


	    Back-calculates R2eff/R1rho dispersion curves for the common 2-site exchange
		models, both analytic closed forms (LM63, CR72, IT99, TSMFK01, M61, DPL94,
		M61 skew) and numerical Bloch-McConnell solutions (the 2-site star method for
		CPMG and the 3D 2-site solution for R1rho).

	    Fits those models to measured curves with a generic minimiser framework:
		steepest descent, Fletcher-Reeves and Polak-Ribiere+ conjugate gradients,
		BFGS, Nelder-Mead simplex, a grid search for seeding, and a Method of
		Multipliers wrapper for constrained parameter spaces.

	    Propagates measurement uncertainty into parameter errors with Monte Carlo
		simulations, including chi-squared based pruning of the replicate ensemble.

	    Flags non-physical fits (model elimination) and ranks competing models with
		information criteria (AIC, AICc, BIC).

	    Plots measured and back-calculated dispersion curves (uses the gonum/plot
		library).

	    Fit state can be JSON encoded, optionally zstd or gzip compressed, for
		interchange with external report writers.

goNMR uses the gonum libraries for all matrix and statistical work. The library holds no
global state: every entry point takes its inputs explicitly, and concurrent use on
disjoint data needs no locking.
*/
package nmr
