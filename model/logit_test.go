package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func interceptOnly(y []float64) *DesignMatrix {
	n := len(y)
	x := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
	}

	return &DesignMatrix{X: x, Y: y, Names: []string{"(intercept)"}}
}

func TestFitLogit_InterceptOnly(t *testing.T) {
	// 30 events in 100: the MLE is log(p/(1-p)) with se 1/sqrt(n p (1-p))
	y := make([]float64, 100)
	for i := 0; i < 30; i++ {
		y[i] = 1
	}

	fit, e := FitLogit(interceptOnly(y))
	assert.Nil(t, e)
	assert.True(t, fit.Converged)
	assert.Equal(t, 100, fit.N)
	assert.InDelta(t, math.Log(3.0/7.0), fit.Coef[0], 1e-6)
	assert.InDelta(t, math.Sqrt(1.0/21.0), fit.StdErr[0], 1e-4)
}

func TestFitLogit_BinaryCovariate(t *testing.T) {
	// x=0: 10 of 20 events (odds 1); x=1: 3 of 14 events (odds 3/11).
	// The saturated MLE is intercept 0, slope log(3/11).
	var y, xv []float64
	for i := 0; i < 20; i++ {
		xv = append(xv, 0)
		if i < 10 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	for i := 0; i < 14; i++ {
		xv = append(xv, 1)
		if i < 3 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}

	n := len(y)
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, xv[i])
	}

	fit, e := FitLogit(&DesignMatrix{X: x, Y: y, Names: []string{"(intercept)", "x"}})
	assert.Nil(t, e)
	assert.True(t, fit.Converged)
	assert.InDelta(t, 0.0, fit.Coef[0], 1e-6)
	assert.InDelta(t, math.Log(3.0/11.0), fit.Coef[1], 1e-6)
}

func TestFitLogit_NonConvergence(t *testing.T) {
	// perfectly separated data cannot converge in two iterations; the
	// fit is reported with Converged=false, not an error
	xv := []float64{-2, -1, 1, 2}
	y := []float64{0, 0, 1, 1}

	x := mat.NewDense(4, 2, nil)
	for i := 0; i < 4; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, xv[i])
	}

	fit, e := FitLogit(&DesignMatrix{X: x, Y: y, Names: []string{"(intercept)", "x"}}, MaxIter(2))
	assert.Nil(t, e)
	assert.False(t, fit.Converged)
	assert.Equal(t, 2, fit.Iter)
}

func TestFitLogit_LengthMismatch(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 1})
	_, e := FitLogit(&DesignMatrix{X: x, Y: []float64{0}, Names: []string{"(intercept)"}})
	assert.NotNil(t, e)
}

func TestFit_String(t *testing.T) {
	y := []float64{0, 0, 1, 1}
	fit, e := FitLogit(interceptOnly(y))
	assert.Nil(t, e)
	assert.Contains(t, fit.String(), "(intercept)")
}
