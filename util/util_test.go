package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[int]bool{67: true, 60: true, 64: true}
	assert.Equal(t, []int{60, 64, 67}, SortedKeys(m))
}

func TestAbsWorksOnDurations(t *testing.T) {
	assert.Equal(t, 30*time.Millisecond, Abs(-30*time.Millisecond))
	assert.Equal(t, 30*time.Millisecond, Abs(30*time.Millisecond))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, Clamp(-0.2, 0, 1))
	assert.Equal(1.0, Clamp(1.7, 0, 1))
	assert.Equal(0.8, Clamp(0.8, 0, 1))
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(325), Sum([]int{150, 175}))
	assert.Equal(t, int64(0), Sum([]int{}))
}
