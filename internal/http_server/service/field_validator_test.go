// Package service
package service

import (
	"strings"
	"testing"

	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

func TestCheckStructNamesFailedField(t *testing.T) {
	InitValidator(&c.HttpServerLimit{CidMin: 800000, CidMax: 1799999})

	req := &RequestCancelTraining{TrainingID: 1}
	status := CheckStruct(req)
	if status == nil {
		t.Fatalf("CheckStruct accepted an empty cancellation reason")
	}
	if status.HttpCode != BadRequest {
		t.Errorf("CheckStruct code = %d; expected 400", status.HttpCode)
	}
	if status.StatusName != ErrLackParam.StatusName {
		t.Errorf("CheckStruct status = %q; expected %q", status.StatusName, ErrLackParam.StatusName)
	}
	if !strings.Contains(status.Description, "reason") {
		t.Errorf("CheckStruct description %q does not name the failed field", status.Description)
	}

	req.Reason = "no time"
	if status := CheckStruct(req); status != nil {
		t.Errorf("CheckStruct rejected a valid request: %s", status.Description)
	}
}

func TestCheckIntRange(t *testing.T) {
	InitValidator(&c.HttpServerLimit{CidMin: 800000, CidMax: 1799999})

	tests := []struct {
		name     string
		value    int
		expected *ApiStatus
	}{
		{"in range", 1000000, nil},
		{"lower bound", 800000, nil},
		{"upper bound", 1799999, nil},
		{"too low", 799999, cidValidator.ErrShort},
		{"too high", 1800000, cidValidator.ErrLong},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := cidValidator.CheckInt(test.value)
		if result != test.expected {
			fail++
			t.Errorf("%s: CheckInt(%d) = %v; expected %v", test.name, test.value, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestCheckIntRange: %d pass, %d fail", pass, fail)
}
