package pricefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUSD(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"rounds down", 0.12345, 0.12},
		{"half rounds away from zero", 0.125, 0.13},
		{"rounds up", 0.2375, 0.24},
		{"already exact", 1.50, 1.50},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundUSD(tt.price))
		})
	}
}
