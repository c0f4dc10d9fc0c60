package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAge_BeforeBirthday(t *testing.T) {
	birth := time.Date(2013, time.November, 17, 0, 0, 0, 0, time.UTC)
	p := Person{BirthDate: &birth}
	p.ComputeAge(time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, p.Age)
	assert.Equal(t, 12, *p.Age)
}

func TestComputeAge_OnBirthday(t *testing.T) {
	birth := time.Date(2013, time.November, 17, 0, 0, 0, 0, time.UTC)
	p := Person{BirthDate: &birth}
	p.ComputeAge(time.Date(2026, time.November, 17, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, p.Age)
	assert.Equal(t, 13, *p.Age)
}

func TestComputeAge_NilBirthDate(t *testing.T) {
	p := Person{}
	p.ComputeAge(time.Now())
	assert.Nil(t, p.Age)
}

func TestComputeAge_FutureBirthDateClampsToZero(t *testing.T) {
	birth := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := Person{BirthDate: &birth}
	p.ComputeAge(time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, p.Age)
	assert.Equal(t, 0, *p.Age)
}
