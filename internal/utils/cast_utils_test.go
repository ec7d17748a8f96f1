// Package utils
package utils

import "testing"

func ExampleStrToInt() {
	StrToInt("1234", 0)
}

func TestStrToInt(t *testing.T) {
	tests := []struct {
		input        string
		defaultValue int
		expected     int
	}{
		{"1", 0, 1},
		{"1000001", 1, 1000001},
		{"ABCD", 0, 0},
		{"ABCD", 100, 100},
		{"", 7, 7},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := StrToInt(test.input, test.defaultValue)
		if result != test.expected {
			fail++
			t.Errorf("StrToInt(%q, %v) = %v; expected %v", test.input, test.defaultValue, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestStrToInt: %d pass, %d fail", pass, fail)
}

func TestStrToUint(t *testing.T) {
	tests := []struct {
		input        string
		defaultValue uint
		expected     uint
	}{
		{"42", 0, 42},
		{"-1", 9, 9},
		{"ABCD", 3, 3},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := StrToUint(test.input, test.defaultValue)
		if result != test.expected {
			fail++
			t.Errorf("StrToUint(%q, %v) = %v; expected %v", test.input, test.defaultValue, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestStrToUint: %d pass, %d fail", pass, fail)
}

func TestStrToFloat(t *testing.T) {
	tests := []struct {
		input        string
		defaultValue float64
		expected     float64
	}{
		{"1", 0, 1},
		{"2.5", 0, 2.5},
		{"ABCD", 0, 0},
		{"ABCD", 100, 100},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := StrToFloat(test.input, test.defaultValue)
		if result != test.expected {
			fail++
			t.Errorf("StrToFloat(%q, %v) = %v; expected %v", test.input, test.defaultValue, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestStrToFloat: %d pass, %d fail", pass, fail)
}
