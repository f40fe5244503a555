package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlineDays(t *testing.T) {
	tests := []struct {
		deadline string
		want     int
	}{
		{"Immediate", 0},
		{"1 day", 1},
		{"3 days", 3},
		{"7 days", 7},
		{"14 days", 14},
		{"30 days", 30},
		{"", 0},
		{"next week", 0},
	}

	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlineDays(tt.deadline))
		})
	}
}

func TestComputeDeadlineDate(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		extend   int
		want     time.Time
	}{
		{"immediate no extension", "Immediate", 0, created},
		{"seven days", "7 days", 0, created.AddDate(0, 0, 7)},
		{"thirty days extended", "30 days", 15, created.AddDate(0, 0, 45)},
		{"extension only", "Immediate", 10, created.AddDate(0, 0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Violation{Deadline: tt.deadline, Extend: tt.extend, CreatedAt: created}
			assert.Equal(t, tt.want, v.ComputeDeadlineDate())
		})
	}
}

func TestDeadlineOptionsAligned(t *testing.T) {
	assert.Equal(t, len(DeadlineOptions), len(DeadlineValues))
}
