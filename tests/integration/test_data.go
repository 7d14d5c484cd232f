package integration

import (
	"fmt"
	"sync/atomic"
)

var employeeCounter atomic.Int64

// TestEmployeeEmail returns a unique email for test isolation
func TestEmployeeEmail(prefix string) string {
	n := employeeCounter.Add(1)
	return fmt.Sprintf("%s-%d@portal.test", prefix, n)
}

const testPassword = "Integration-Test-Pass-1!"
