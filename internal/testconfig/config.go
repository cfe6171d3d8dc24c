package testconfig

import (
	"os"
	"testing"
)

const (
	PARALLEL_TESTS_ENV_VARNAME = "TREEWALK_PARALLEL_TESTS"
)

var (
	PARALLELIZE_SAME_PKG_TESTS = os.Getenv(PARALLEL_TESTS_ENV_VARNAME) == "1"
)

func AllowParallelization(t *testing.T) {
	if PARALLELIZE_SAME_PKG_TESTS {
		t.Parallel()
	}
}
