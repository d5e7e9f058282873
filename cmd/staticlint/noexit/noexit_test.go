package noexit_test

import (
	"testing"

	"github.com/Totarae/shortener/cmd/staticlint/noexit"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestNoExit(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), noexit.Analyzer, "a", "b")
}
