package models

import "testing"

func TestProjectProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		goal    int64
		want    float64
	}{
		{"zero funding", 0, 100000, 0},
		{"half funded", 50000, 100000, 50},
		{"fully funded", 100000, 100000, 100},
		{"overfunded clamps at 100", 250000, 100000, 100},
		{"zero goal", 50000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project{CurrentFundingPaise: tt.current, FundingGoalPaise: tt.goal}
			if got := p.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}
