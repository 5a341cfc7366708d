package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet/internal/availability"
	"fleet/shared/constant"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name               string
		current            string
		hasActiveConfirmed bool
		want               string
	}{
		{
			name:               "available vehicle with active confirmed reservation becomes rented",
			current:            constant.VehicleStatusAvailable,
			hasActiveConfirmed: true,
			want:               constant.VehicleStatusRented,
		},
		{
			name:               "rented vehicle without active confirmed reservation becomes available",
			current:            constant.VehicleStatusRented,
			hasActiveConfirmed: false,
			want:               constant.VehicleStatusAvailable,
		},
		{
			name:               "available vehicle without reservations stays available",
			current:            constant.VehicleStatusAvailable,
			hasActiveConfirmed: false,
			want:               constant.VehicleStatusAvailable,
		},
		{
			name:               "rented vehicle with active confirmed reservation stays rented",
			current:            constant.VehicleStatusRented,
			hasActiveConfirmed: true,
			want:               constant.VehicleStatusRented,
		},
		{
			name:               "maintenance override survives active confirmed reservation",
			current:            constant.VehicleStatusMaintenance,
			hasActiveConfirmed: true,
			want:               constant.VehicleStatusMaintenance,
		},
		{
			name:               "maintenance override survives empty reservation set",
			current:            constant.VehicleStatusMaintenance,
			hasActiveConfirmed: false,
			want:               constant.VehicleStatusMaintenance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availability.DeriveStatus(tt.current, tt.hasActiveConfirmed))
		})
	}
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{
			name:   "disjoint intervals do not overlap",
			aStart: day(1), aEnd: day(5), bStart: day(10), bEnd: day(15),
			want: false,
		},
		{
			name:   "contained interval overlaps",
			aStart: day(1), aEnd: day(10), bStart: day(3), bEnd: day(7),
			want: true,
		},
		{
			name:   "partial overlap at the front",
			aStart: day(1), aEnd: day(5), bStart: day(4), bEnd: day(10),
			want: true,
		},
		{
			name:   "shared boundary day counts as overlap",
			aStart: day(1), aEnd: day(5), bStart: day(5), bEnd: day(10),
			want: true,
		},
		{
			name:   "shared boundary day counts as overlap in reverse order",
			aStart: day(5), aEnd: day(10), bStart: day(1), bEnd: day(5),
			want: true,
		},
		{
			name:   "adjacent intervals one day apart do not overlap",
			aStart: day(1), aEnd: day(5), bStart: day(6), bEnd: day(10),
			want: false,
		},
		{
			name:   "single day interval against itself overlaps",
			aStart: day(3), aEnd: day(3), bStart: day(3), bEnd: day(3),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availability.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}
