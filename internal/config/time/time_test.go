package time

import (
	"testing"
	"time"
)

func TestUnmarshalText(t *testing.T) {
	var tests = map[string]struct {
		text          string
		expected      time.Duration
		expectedError bool
	}{
		"seconds": {
			text:     "60s",
			expected: 60 * time.Second,
		},
		"minutes and seconds": {
			text:     "4m20s",
			expected: 4*time.Minute + 20*time.Second,
		},
		"missing unit": {
			text:          "60",
			expectedError: true,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			duration := &Duration{}

			err := duration.UnmarshalText([]byte(test.text))
			if test.expectedError {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if duration.ToDuration() != test.expected {
				t.Errorf(
					"unexpected duration\nexpected: [%v]\nactual:   [%v]",
					test.expected,
					duration.ToDuration(),
				)
			}
		})
	}
}
