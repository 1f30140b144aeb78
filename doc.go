/*
Package shiftrule computes shift rules: finite sets of sample offsets and real coefficients that estimate
a derivative of a periodic signal, given as a sum of sinusoids at known frequencies, as a weighted sum of
the signal's values at those offsets.

Given a derivative order, a set of frequencies and a candidate support, Build assembles the real linear
system whose solutions are exact shift rules, and Solve finds its (minimum norm, least-squares) solution at
an arbitrary, caller-chosen binary precision. The returned residual tells whether the support is feasible,
and the cost gap tells how close the rule is to the known lower bound on its L1 cost.

All arithmetic of one call is carried at the precision of its Context; there is no package-level state,
so calls with different precisions can be freely interleaved or run concurrently.
*/
package shiftrule
