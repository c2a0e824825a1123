package workload

import (
	"math"
	"math/big"
	"math/rand"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type PiCalculation struct {
	Time     float64 `json:"time"`
	Result   float64 `json:"result"`
	Accuracy float64 `json:"accuracy"`
}

type MatrixMultiplication struct {
	Time       float64 `json:"time"`
	MatrixSize int     `json:"matrix_size"`
	ResultSum  float64 `json:"result_sum"`
}

type PrimeGeneration struct {
	Time         float64 `json:"time"`
	PrimesFound  int     `json:"primes_found"`
	LargestPrime int     `json:"largest_prime"`
}

type HighPrecisionFactorial struct {
	Time         float64 `json:"time"`
	Input        int     `json:"input"`
	ResultLength int     `json:"result_length"`
}

type Computation struct {
	Iteration              int                    `json:"iteration"`
	PiCalculation          PiCalculation          `json:"pi_calculation"`
	MatrixMultiplication   MatrixMultiplication   `json:"matrix_multiplication"`
	PrimeGeneration        PrimeGeneration        `json:"prime_generation"`
	HighPrecisionFactorial HighPrecisionFactorial `json:"high_precision_factorial"`
}

type MathResult struct {
	Operation    Operation     `json:"operation"`
	Complexity   int           `json:"complexity"`
	Iterations   int           `json:"iterations"`
	Computations []Computation `json:"computations"`
	Summary
}

func (r *MathResult) PhaseTime() float64 {
	var t float64
	for _, c := range r.Computations {
		t += c.PiCalculation.Time + c.MatrixMultiplication.Time + c.PrimeGeneration.Time + c.HighPrecisionFactorial.Time
	}
	return t
}

// MathematicalComputationWorkload stresses the FPU (Leibniz series, matrix
// product), integer arithmetic (sieve) and arbitrary precision arithmetic.
func MathematicalComputationWorkload(complexity, iterations int, seed int64) *MathResult {
	res := &MathResult{
		Operation:    MathematicalComputation,
		Complexity:   complexity,
		Iterations:   iterations,
		Computations: make([]Computation, 0, iterations),
	}

	for i := 0; i < iterations; i++ {
		rng := iterationRand(seed, i)
		c := Computation{Iteration: i + 1}

		var pi float64
		c.PiCalculation.Time = timed(func() { pi = leibnizPi(complexity) })
		c.PiCalculation.Result = pi
		c.PiCalculation.Accuracy = math.Abs(pi - math.Pi)

		size := complexity / 10
		var product [][]float64
		c.MatrixMultiplication.Time = timed(func() { product = multiplyRandomMatrices(rng, size) })
		c.MatrixMultiplication.MatrixSize = size
		for _, row := range product {
			for _, v := range row {
				c.MatrixMultiplication.ResultSum += v
			}
		}

		var primes []int
		c.PrimeGeneration.Time = timed(func() { primes = sieve(complexity) })
		c.PrimeGeneration.PrimesFound = len(primes)
		if len(primes) > 0 {
			c.PrimeGeneration.LargestPrime = primes[len(primes)-1]
		}

		n := min(complexity/100, 100)
		var fact decimal.Decimal
		c.HighPrecisionFactorial.Time = timed(func() { fact = factorial(n) })
		c.HighPrecisionFactorial.Input = n
		c.HighPrecisionFactorial.ResultLength = len(sciString(fact))

		res.Computations = append(res.Computations, c)
	}
	return res
}

func leibnizPi(terms int) float64 {
	sum := 0.0
	sign := 1.0
	for i := 0; i < terms; i++ {
		sum += sign / float64(2*i+1)
		sign = -sign
	}
	return sum * 4
}

func multiplyRandomMatrices(rng *rand.Rand, size int) [][]float64 {
	a := randomMatrix(rng, size)
	b := randomMatrix(rng, size)
	out := make([][]float64, size)
	for i := range out {
		out[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			var acc float64
			for k := 0; k < size; k++ {
				acc += a[i][k] * b[k][j]
			}
			out[i][j] = acc
		}
	}
	return out
}

func randomMatrix(rng *rand.Rand, size int) [][]float64 {
	m := make([][]float64, size)
	for i := range m {
		m[i] = make([]float64, size)
		for j := range m[i] {
			m[i][j] = rng.Float64()
		}
	}
	return m
}

// sieve returns the primes <= limit in ascending order.
func sieve(limit int) []int {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	for i := 2; i*i <= limit; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	primes := make([]int, 0)
	for i := 2; i <= limit; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}

// factorialPrecision is the number of significant digits kept by factorial.
const factorialPrecision = 50

// factorial computes n! with factorialPrecision significant digits, rounding
// half to even after every product; n is never negative here (callers derive
// it from a validated, positive complexity).
func factorial(n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := 2; i <= n; i++ {
		result = roundSignificant(result.Mul(decimal.NewFromInt(int64(i))), factorialPrecision)
	}
	return result
}

// roundSignificant rounds d to at most digits significant digits. The
// exponent of a rounded value is the position of its last kept digit.
func roundSignificant(d decimal.Decimal, digits int) decimal.Decimal {
	excess := d.NumDigits() - digits
	if excess <= 0 {
		return d
	}
	r := d.RoundBank(-(d.Exponent() + int32(excess)))
	if r.NumDigits() > digits {
		// 99..9 rounded up to 100..0
		coef := new(big.Int).Quo(r.Coefficient(), big.NewInt(10))
		r = decimal.NewFromBigInt(coef, r.Exponent()+1)
	}
	return r
}

// sciString formats d from its coefficient and exponent: plain notation when
// the exponent is not positive and the value is not tiny, scientific otherwise
// (e.g. 1.4050061177528798985431426062445115699363840000000E+51).
func sciString(d decimal.Decimal) string {
	coef := d.Coefficient()
	neg := coef.Sign() < 0
	digits := new(big.Int).Abs(coef).String()
	exp := int(d.Exponent())
	adjusted := exp + len(digits) - 1

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	switch {
	case exp <= 0 && adjusted >= -6:
		point := len(digits) + exp
		switch {
		case exp == 0:
			sb.WriteString(digits)
		case point > 0:
			sb.WriteString(digits[:point])
			sb.WriteByte('.')
			sb.WriteString(digits[point:])
		default:
			sb.WriteString("0.")
			sb.WriteString(strings.Repeat("0", -point))
			sb.WriteString(digits)
		}
	default:
		sb.WriteString(digits[:1])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('E')
		if adjusted >= 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.Itoa(adjusted))
	}
	return sb.String()
}
