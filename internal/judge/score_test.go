package judge

import "testing"

func TestExtractScore(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"8", 8},
		{"Score: 7.5/10", 7.5},
		{"I rate it 9 out of 10", 9},
		{"no number here", 0},
		{"", 0},
		{"quota exceeded", 0},
		{"15", 15},
		{"-3", 3},
		{"7.", 7},
		{"ten, or maybe 6", 6},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ExtractScore(tt.text); got != tt.want {
				t.Errorf("ExtractScore(%q): expected %v, got %v", tt.text, tt.want, got)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{"empty", nil, 0},
		{"single", []float64{8}, 8},
		{"half rounds up", []float64{7, 8}, 8},
		{"decimal half", []float64{7.5}, 8},
		{"below half", []float64{8, 8, 0}, 5},
		{"above half", []float64{9, 9, 0}, 6},
		{"not clamped", []float64{15, 15}, 15},
		{"all zero", []float64{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.values); got != tt.want {
				t.Errorf("Aggregate(%v): expected %d, got %d", tt.values, tt.want, got)
			}
		})
	}
}
