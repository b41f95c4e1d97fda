// Copyright ©2024 The rsimplex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplex is the core of a revised-simplex linear-programming
// engine: sparse LU factorization of the basis, FTRAN/BTRAN solves against
// that basis, and a two-phase primal simplex iteration that threads them
// together.
//
// The package does not read model files, expose a public model-assembly
// API, or implement MIP branching, presolve, crossover, or an interior
// point method. Callers build a ModelView and a Config and call Solve;
// everything else (attribute storage, I/O, environment lifecycle) is the
// caller's concern.
package simplex
