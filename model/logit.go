package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Fit is a fitted logistic regression. Converged is reported, never
// raised: callers decide what a non-converged fit is worth.
type Fit struct {
	Names     []string
	Coef      []float64
	StdErr    []float64
	LogLik    float64
	N         int
	Iter      int
	Converged bool
}

type fitConfig struct {
	maxIter int
	tol     float64
}

type FitOpt func(*fitConfig)

func MaxIter(n int) FitOpt {
	return func(c *fitConfig) { c.maxIter = n }
}

func Tol(t float64) FitOpt {
	return func(c *fitConfig) { c.tol = t }
}

// probability clamp; keeps the weights finite under (near-)separation
const pEps = 1e-10

// FitLogit fits a binomial logit by iteratively reweighted least
// squares. It errors only on structural problems (a singular weighted
// normal matrix); running out of iterations sets Converged=false.
func FitLogit(d *DesignMatrix, opts ...FitOpt) (*Fit, error) {
	cfg := fitConfig{maxIter: 25, tol: 1e-8}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.maxIter < 1 {
		cfg.maxIter = 1
	}

	n, p := d.X.Dims()
	if len(d.Y) != n {
		return nil, fmt.Errorf("response length %d, design has %d rows", len(d.Y), n)
	}

	beta := make([]float64, p)
	eta := make([]float64, n)
	var chol mat.Cholesky

	converged := false
	iter := 0
	for ; iter < cfg.maxIter; iter++ {
		a := mat.NewSymDense(p, nil)
		b := mat.NewVecDense(p, nil)

		for i := 0; i < n; i++ {
			xi := d.X.RawRowView(i)

			e := 0.0
			for j := 0; j < p; j++ {
				e += xi[j] * beta[j]
			}
			eta[i] = e

			mu := clamp(1.0 / (1.0 + math.Exp(-e)))
			w := mu * (1.0 - mu)
			z := e + (d.Y[i]-mu)/w

			for j := 0; j < p; j++ {
				for k := j; k < p; k++ {
					a.SetSym(j, k, a.At(j, k)+w*xi[j]*xi[k])
				}
				b.SetVec(j, b.AtVec(j)+w*xi[j]*z)
			}
		}

		if ok := chol.Factorize(a); !ok {
			return nil, fmt.Errorf("singular design: weighted normal matrix is not positive definite")
		}

		var next mat.VecDense
		if e := chol.SolveVecTo(&next, b); e != nil {
			return nil, e
		}

		delta := 0.0
		for j := 0; j < p; j++ {
			if d := math.Abs(next.AtVec(j) - beta[j]); d > delta {
				delta = d
			}
			beta[j] = next.AtVec(j)
		}

		if delta < cfg.tol {
			converged = true
			iter++
			break
		}
	}

	var cov mat.SymDense
	if e := chol.InverseTo(&cov); e != nil {
		return nil, e
	}

	se := make([]float64, p)
	for j := 0; j < p; j++ {
		se[j] = math.Sqrt(cov.At(j, j))
	}

	ll := 0.0
	for i := 0; i < n; i++ {
		e := 0.0
		for j := 0; j < p; j++ {
			e += d.X.At(i, j) * beta[j]
		}

		mu := clamp(1.0 / (1.0 + math.Exp(-e)))
		ll += d.Y[i]*math.Log(mu) + (1.0-d.Y[i])*math.Log(1.0-mu)
	}

	return &Fit{
		Names:     d.Names,
		Coef:      beta,
		StdErr:    se,
		LogLik:    ll,
		N:         n,
		Iter:      iter,
		Converged: converged,
	}, nil
}

func clamp(p float64) float64 {
	if p < pEps {
		return pEps
	}
	if p > 1.0-pEps {
		return 1.0 - pEps
	}

	return p
}

// String renders a coefficient table.
func (f *Fit) String() string {
	width := 0
	for _, nm := range f.Names {
		if len(nm) > width {
			width = len(nm)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "logistic fit: n = %d, logLik = %.4f, iterations = %d, converged = %v\n", f.N, f.LogLik, f.Iter, f.Converged)
	fmt.Fprintf(&b, "%-*s  %12s  %12s  %8s\n", width, "term", "estimate", "std err", "z")
	for j, nm := range f.Names {
		z := f.Coef[j] / f.StdErr[j]
		fmt.Fprintf(&b, "%-*s  %12.6f  %12.6f  %8.3f\n", width, nm, f.Coef[j], f.StdErr[j], z)
	}

	return b.String()
}
