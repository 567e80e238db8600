package projectile

import (
	"math"

	"github.com/sirupsen/logrus"
)

// RollingStatistic is an online mean/variance estimator over a fixed-size
// sliding window, used to spot anomalous per-step displacement (the
// fingerprint of a pole crossing, see Projectile.reprojectVelocities).
type RollingStatistic struct {
	n              int
	readyThreshold int
	mean           float64
	variance       float64
	elements       []float64
	filled         int
	next           int // ring buffer write position once filled == n
	log            *logrus.Logger
}

// NewRollingStatistic builds a window of size n. readyThreshold gates
// IsOutlier: until that many samples have been seen, every sample is
// considered "not an outlier" (there isn't enough history to judge).
func NewRollingStatistic(n, readyThreshold int, log *logrus.Logger) *RollingStatistic {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RollingStatistic{
		n:              n,
		readyThreshold: readyThreshold,
		elements:       make([]float64, 0, n),
		log:            log,
	}
}

// Mean returns the current windowed mean.
func (r *RollingStatistic) Mean() float64 { return r.mean }

// StdDev returns the current windowed standard deviation.
func (r *RollingStatistic) StdDev() float64 { return math.Sqrt(r.variance) }

// Update folds a new sample into the window, evicting the oldest sample once
// the window is full.
func (r *RollingStatistic) Update(sample float64) {
	if r.filled < r.n {
		oldAvg := r.mean
		r.mean = (r.mean*float64(r.filled) + sample) / float64(r.filled+1)
		if r.filled >= 1 {
			r.variance = (float64(r.filled-1) / float64(r.filled) * r.variance) +
				1/float64(r.filled+1)*math.Pow(sample-oldAvg, 2)
		}
		r.elements = append(r.elements, sample)
		r.filled++
		return
	}

	old := r.elements[r.next]
	oldAvg := r.mean
	r.mean = oldAvg + (sample-old)/float64(r.n)
	newVar := r.variance + (sample-old)*(sample-r.mean+old-oldAvg)/float64(r.n-1)
	if newVar < 0 {
		r.log.WithFields(logrus.Fields{"variance": newVar}).Warn("rolling statistic variance underflow, retaining previous variance")
	} else {
		r.variance = newVar
	}
	r.elements[r.next] = sample
	r.next = (r.next + 1) % r.n
}

// IsOutlier reports whether sample is more than k standard deviations from
// the windowed mean, once readyThreshold samples have accumulated.
func (r *RollingStatistic) IsOutlier(sample float64, k float64) bool {
	if r.filled < r.readyThreshold {
		return false
	}
	return math.Abs(sample-r.mean) > r.StdDev()*k
}
